package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts through the API",
	}
	cmd.AddCommand(accountsListCmd(), accountsCreateCmd(), accountsUpdateCmd(), accountsDeleteCmd())
	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			if err := view.Load(cmd.Context()); err != nil {
				return describe(err)
			}
			printAccounts(cmd, view.Snapshot().Accounts)
			return nil
		},
	}
}

func accountsCreateCmd() *cobra.Command {
	var account domain.Account
	var accountType string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			account.Type = domain.AccountType(accountType)
			id, err := view.CreateAccount(cmd.Context(), &account)
			if id != "" {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return describe(err)
		},
	}
	cmd.Flags().StringVar(&account.Name, "name", "", "account name")
	cmd.Flags().StringVar(&accountType, "type", string(domain.AccountTypeChecking), "account type")
	cmd.Flags().StringVar(&account.Icon, "icon", "wallet", "icon name")
	cmd.Flags().StringVar(&account.Last4, "last4", "", "last four digits of the account number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("last4")
	return cmd
}

func accountsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <account-id>",
		Short: "Change the given fields of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.AccountPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				name, _ := flags.GetString("name")
				patch.Name = &name
			}
			if flags.Changed("type") {
				value, _ := flags.GetString("type")
				accountType := domain.AccountType(value)
				patch.Type = &accountType
			}
			if flags.Changed("icon") {
				icon, _ := flags.GetString("icon")
				patch.Icon = &icon
			}
			if flags.Changed("last4") {
				last4, _ := flags.GetString("last4")
				patch.Last4 = &last4
			}

			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			return describe(view.UpdateAccount(cmd.Context(), args[0], patch))
		},
	}
	cmd.Flags().String("name", "", "account name")
	cmd.Flags().String("type", "", "account type")
	cmd.Flags().String("icon", "", "icon name")
	cmd.Flags().String("last4", "", "last four digits, empty to clear")
	return cmd
}

func accountsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			return describe(view.DeleteAccount(cmd.Context(), args[0]))
		},
	}
}

func printAccounts(cmd *cobra.Command, accounts []domain.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts yet")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tLAST4")
	for _, account := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", account.ID, account.Name, account.Type, account.Last4)
	}
	w.Flush()
}
