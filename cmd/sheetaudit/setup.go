package main

import (
	"fmt"

	"f0oster/sheetaudit/trigger"

	"github.com/spf13/cobra"
)

func newSetupCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Register edit, change and open subscriptions for every monitored document",
		Long: "Register edit, change and open subscriptions for every monitored document.\n" +
			"Running setup again registers duplicate subscriptions, and each notification is then delivered once per copy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := loadRuntime(ctx, *envFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.durable {
				return fmt.Errorf("setup needs SHEETAUDIT_POSTGRES_DSN to store subscriptions")
			}

			docs := rt.cfg.MonitoredDocuments()
			if len(docs) == 0 {
				return fmt.Errorf("no monitored documents: set SHEETAUDIT_DOCUMENT_ID or SHEETAUDIT_SOURCES_FILE")
			}

			installed, err := trigger.Install(ctx, rt.registry, docs)
			if err != nil {
				return err
			}
			for _, sub := range installed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", sub.ID, sub.DocumentID, sub.Kind)
			}
			return nil
		},
	}
}
