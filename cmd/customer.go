package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/akylbek/payment-relay/internal/config"
	"github.com/akylbek/payment-relay/internal/models"
	"github.com/akylbek/payment-relay/internal/repository"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a customer",
	RunE:  runCustomerAdd,
}

func init() {
	customerAddCmd.Flags().String("email", "", "customer email (required)")
	customerAddCmd.Flags().String("username", "", "display name")
	customerAddCmd.Flags().String("balance", "0", "opening balance")
	_ = customerAddCmd.MarkFlagRequired("email")

	customerCmd.AddCommand(customerAddCmd)
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	username, _ := cmd.Flags().GetString("username")
	rawBalance, _ := cmd.Flags().GetString("balance")

	balance, err := decimal.NewFromString(rawBalance)
	if err != nil || balance.IsNegative() {
		return fmt.Errorf("invalid balance %q", rawBalance)
	}

	db, err := openDB(config.Load())
	if err != nil {
		return err
	}
	defer db.Close()

	customer := &models.Customer{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Balance:  balance,
	}
	if err := repository.NewCustomerRepository(db).Create(cmd.Context(), customer); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s (%s)\n", customer.ID, customer.Email)
	return nil
}
