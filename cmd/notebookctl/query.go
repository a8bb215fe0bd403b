package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func restyClient() *resty.Client {
	return resty.New().SetBaseURL(apiFlag).SetTimeout(10 * time.Second)
}

func init() {
	queryCmd := &cobra.Command{Use: "query", Short: "Read the notebook's materialized state"}

	cellsCmd := &cobra.Command{
		Use:   "cells",
		Short: "List all cells",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/cells")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(cellsCmd)

	cellCmd := &cobra.Command{
		Use:   "cell CELL_ID",
		Short: "Get a single cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/cells/" + args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(cellCmd)

	outputsCmd := &cobra.Command{
		Use:   "outputs CELL_ID",
		Short: "List a cell's outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/cells/" + args[0] + "/outputs")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(outputsCmd)

	execQueueCmd := &cobra.Command{
		Use:   "execution-queue CELL_ID",
		Short: "List a cell's execution queue entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/cells/" + args[0] + "/execution-queue")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(execQueueCmd)

	sessionsCmd := &cobra.Command{
		Use:   "runtime-sessions",
		Short: "List runtime sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/runtime-sessions")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(sessionsCmd)

	metadataCmd := &cobra.Command{
		Use:   "notebook-metadata",
		Short: "Print notebook metadata key/value pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := restyClient().R().Get("/api/notebook-metadata")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.AddCommand(metadataCmd)

	rootCmd.AddCommand(queryCmd)
}

func printResponse(resp *resty.Response) error {
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err := fmt.Fprintln(os.Stdout, resp.String())
	return err
}
