package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"outlet-sales/services"
)

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict sales for every stored row with the latest model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			predictor := services.NewPredictor(store, store, store, a.logger, a.cfg.MaxConcurrency, a.cfg.PredictChunk)
			res, err := predictor.PredictAll(ctx)
			if err != nil {
				return err
			}

			reports := services.NewReportServiceTo(a.logger, cmd.OutOrStdout())
			reports.Print(reports.Generate(res))
			return nil
		},
	}
}

func newPredictOneCmd(a *app) *cobra.Command {
	var (
		req        services.SingleRequest
		mrp        float64
		visibility float64
		fat        string
		location   string
		outletType string
		year       int
	)

	cmd := &cobra.Command{
		Use:   "predict-one",
		Short: "Predict sales for one stored row, optionally overriding its inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			if req.RecordID != 0 && req.Random {
				return errors.New("--id and --random are mutually exclusive")
			}
			if flags.Changed("mrp") {
				req.Overrides.MRP = &mrp
			}
			if flags.Changed("visibility") {
				req.Overrides.Visibility = &visibility
			}
			if flags.Changed("fat-content") {
				req.Overrides.FatContent = &fat
			}
			if flags.Changed("location") {
				req.Overrides.LocationType = &location
			}
			if flags.Changed("outlet-type") {
				req.Overrides.OutletType = &outletType
			}
			if flags.Changed("year") {
				req.Overrides.EstablishmentYear = &year
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			predictor := services.NewPredictor(store, store, store, a.logger, 1, 1)
			res, err := predictor.PredictOne(ctx, req)
			if err != nil {
				return err
			}
			services.NewReportServiceTo(a.logger, cmd.OutOrStdout()).PrintSingle(res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&req.RecordID, "id", 0, "sales_data row id to start from (default: first row)")
	flags.BoolVar(&req.Random, "random", false, "start from a random stored row")
	flags.Float64Var(&mrp, "mrp", 0, "override Item_MRP")
	flags.Float64Var(&visibility, "visibility", 0, "override Item_Visibility")
	flags.StringVar(&fat, "fat-content", "", "override Item_Fat_Content")
	flags.StringVar(&location, "location", "", "override Outlet_Location_Type, e.g. \"Tier 2\"")
	flags.StringVar(&outletType, "outlet-type", "", "override Outlet_Type")
	flags.IntVar(&year, "year", 0, "override Outlet_Establishment_Year")
	flags.BoolVar(&req.Save, "save", false, "append the prediction to the history")
	return cmd
}
