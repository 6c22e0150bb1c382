package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maoshanman/durian-order-bot/internal/config"
	"github.com/maoshanman/durian-order-bot/internal/services"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Print the most recent orders from the configured store",
	RunE:  runOrders,
}

func init() {
	ordersCmd.Flags().IntP("last", "n", services.DefaultLastOrders, "number of orders to show")
}

func runOrders(cmd *cobra.Command, args []string) error {
	last, err := cmd.Flags().GetInt("last")
	if err != nil {
		return err
	}
	if last <= 0 {
		return errors.Errorf("--last must be positive, got %d", last)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	store, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return errors.Wrapf(err, "open %s", storage.Describe(cfg))
	}

	records, err := services.NewOrderQuery(store).LastN(cmd.Context(), last)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), services.FormatOrders(last, records))
	return err
}
