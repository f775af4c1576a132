package cmd

import (
	"github.com/spf13/cobra"

	"outlet-sales/services"
)

func newTrainCmd(a *app) *cobra.Command {
	var opts services.TrainOptions

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the encoder and regression model on stored rows and save the artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("test-size") {
				opts.TestSize = a.cfg.TestSize
			}
			if !flags.Changed("seed") {
				opts.Seed = a.cfg.SplitSeed
			}
			if !flags.Changed("ridge") {
				opts.Ridge = a.cfg.RidgeLambda
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			artifact, err := services.NewTrainer(store, store, a.logger).Train(ctx, opts)
			if err != nil {
				return err
			}
			services.NewReportServiceTo(a.logger, cmd.OutOrStdout()).PrintTraining(artifact)
			return nil
		},
	}

	defaults := services.DefaultTrainOptions()
	cmd.Flags().Float64Var(&opts.TestSize, "test-size", defaults.TestSize, "fraction of rows held out for evaluation")
	cmd.Flags().Int64Var(&opts.Seed, "seed", defaults.Seed, "random seed for the train/test split")
	cmd.Flags().Float64Var(&opts.Ridge, "ridge", defaults.Ridge, "ridge regularisation strength")
	return cmd
}
