package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbsync/notebook-order/internal/model"
	"github.com/nbsync/notebook-order/internal/rebalance"
)

func init() {
	rebalanceCheckCmd := &cobra.Command{
		Use:   "rebalance-check",
		Short: "Fetch the live cell order and report whether it needs rebalancing",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/cells")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}

			var cells []model.Cell
			if err := json.Unmarshal(resp.Body(), &cells); err != nil {
				return fmt.Errorf("parse cells: %w", err)
			}

			needs := rebalance.NeedsRebalancing(rebalance.ModelCellsToIndexed(cells), nil)
			fmt.Printf("cells: %d\n", len(cells))
			fmt.Printf("needsRebalancing: %v\n", needs)
			return nil
		},
	}
	rootCmd.AddCommand(rebalanceCheckCmd)
}
