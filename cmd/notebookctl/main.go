package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag = "http://localhost:8080"
	rootCmd = &cobra.Command{
		Use:   "notebookctl",
		Short: "CLI client for the notebook-order service",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", apiFlag, "notebook-order service base URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
