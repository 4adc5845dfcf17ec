package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Browse and edit transactions through the API",
	}
	cmd.AddCommand(transactionsListCmd(), transactionsAddCmd(), transactionsDeleteCmd())
	return cmd
}

func transactionsListCmd() *cobra.Command {
	var (
		accountID string
		pageSize  int
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions of an account, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			view, err := apiView(ctx, pageSize)
			if err != nil {
				return err
			}
			if err := view.Load(ctx); err != nil {
				return describe(err)
			}
			if accountID != "" {
				if err := view.Select(ctx, accountID); err != nil {
					return describe(err)
				}
			}
			for all && view.Snapshot().HasMore {
				if err := view.LoadMore(ctx); err != nil {
					return describe(err)
				}
			}

			snapshot := view.Snapshot()
			if snapshot.SelectedAccountID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts yet")
				return nil
			}
			printTransactions(cmd, snapshot.Transactions)
			if snapshot.HasMore {
				fmt.Fprintln(cmd.OutOrStdout(), "More transactions available, use --all to list them")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "account id, defaults to the first account")
	cmd.Flags().IntVar(&pageSize, "page-size", domain.DefaultPageSize, "transactions per page")
	cmd.Flags().BoolVar(&all, "all", false, "follow pages until the end")
	return cmd
}

func transactionsAddCmd() *cobra.Command {
	var (
		transaction domain.Transaction
		amount      string
		category    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction; negative amounts are expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			transaction.Amount = value
			transaction.Type = domain.TypeForAmount(value)
			transaction.Category = domain.Category(category)
			if transaction.Icon == "" {
				transaction.Icon = domain.CategoryIcon(transaction.Category)
			}

			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			id, err := view.CreateTransaction(cmd.Context(), &transaction)
			if id != "" {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return describe(err)
		},
	}
	cmd.Flags().StringVar(&transaction.AccountID, "account", "", "account id")
	cmd.Flags().StringVar(&transaction.Description, "description", "", "description")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount, e.g. -12.50")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryOther), "category")
	cmd.Flags().StringVar(&transaction.Date, "date", time.Now().Format(domain.DateLayout), "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&transaction.Icon, "icon", "", "icon name, defaults to the category icon")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func transactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := apiView(cmd.Context(), domain.DefaultPageSize)
			if err != nil {
				return err
			}
			return describe(view.DeleteTransaction(cmd.Context(), args[0]))
		},
	}
}

func printTransactions(cmd *cobra.Command, transactions []domain.Transaction) {
	if len(transactions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No transactions")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT\tCATEGORY\tDESCRIPTION\tID")
	for _, transaction := range transactions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			transaction.Date, transaction.Amount.StringFixed(2), transaction.Category, transaction.Description, transaction.ID)
	}
	w.Flush()
}
