package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var accountID string
	cmd := &cobra.Command{
		Use:   "import-ofx <statement.ofx>",
		Short: "Upload an OFX/QFX bank statement into an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient()
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer file.Close()

			imported, err := c.ImportOFX(cmd.Context(), accountID, file)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", imported)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "account id")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
