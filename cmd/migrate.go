package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akylbek/payment-relay/internal/config"
	"github.com/akylbek/payment-relay/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the customers and applied_orders tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(config.Load())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.NewCustomerRepository(db).InitDB(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}
