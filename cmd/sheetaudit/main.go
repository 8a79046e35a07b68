package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "sheetaudit",
		Short:         "Audit trail for spreadsheet edits and structural changes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", "settings.env", "dotenv file to load before reading SHEETAUDIT_* variables")

	root.AddCommand(
		newServeCmd(&envFile),
		newSetupCmd(&envFile),
		newSnapshotCmd(&envFile),
	)
	return root
}
