package main

import (
	"encoding/json"

	"f0oster/sheetaudit/snapshot"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect stored structure snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [document-id]",
		Short: "Print the structure baseline stored for a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := loadRuntime(ctx, *envFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			var documentID string
			if len(args) == 1 {
				documentID = args[0]
			}
			key := snapshot.StorageKey(rt.cfg.SnapshotDocument(documentID))

			snap, err := rt.snapshots.Load(ctx, key)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"key":       key,
				"structure": snap,
			})
		},
	})
	return cmd
}
