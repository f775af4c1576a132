package cmd

import (
	"github.com/spf13/cobra"

	"outlet-sales/services"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest saved predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			preds, err := store.LatestPredictions(ctx, limit)
			if err != nil {
				return err
			}
			services.NewReportServiceTo(a.logger, cmd.OutOrStdout()).PrintHistory(preds)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of predictions to show")
	return cmd
}
