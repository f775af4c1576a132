package cmd

import (
	"github.com/spf13/cobra"

	"outlet-sales/services"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the feature columns of the latest model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			artifact, err := store.LatestArtifact(ctx)
			if err != nil {
				return err
			}
			services.NewReportServiceTo(a.logger, cmd.OutOrStdout()).PrintSchema(artifact)
			return nil
		},
	}
}
