package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlet-sales/services"
	"outlet-sales/storage"
)

func newLoadCmd(a *app) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a Train.csv shaped file into sales_data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			reader, err := storage.NewCSVReader(csvPath)
			if err != nil {
				return err
			}
			defer reader.Close()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := services.NewIngester(store, a.logger).Load(ctx, reader)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows from %s\n", n, csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "Train.csv", "path to the CSV file")
	return cmd
}
