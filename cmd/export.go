package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"outlet-sales/storage"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all stored predictions to XLSX (or CSV by extension)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out == "" {
				out = a.cfg.ExportPath
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			preds, err := store.AllPredictions(ctx)
			if err != nil {
				return err
			}

			w, err := newPredictionWriter(out)
			if err != nil {
				return err
			}
			if err := w.WritePredictions(preds); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			a.logger.Info("[export] Wrote %d predictions to %s", len(preds), out)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d predictions to %s\n", len(preds), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file, .xlsx or .csv (default from EXPORT_PATH)")
	return cmd
}

func newPredictionWriter(path string) (storage.PredictionWriter, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return storage.NewCSVWriter(path)
	}
	return storage.NewXLSXWriter(path)
}
