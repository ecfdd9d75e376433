package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inferOrdinanceNumber string

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Infer reading stages for ordinances whose links are all still discussed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := newEngine(st).InferReadingsFromDiscussed(ctx, inferOrdinanceNumber)
		if err != nil {
			return eris.Wrap(err, "infer readings")
		}

		zap.L().Info("inference complete",
			zap.Int("updated", result.Updated),
			zap.Strings("ordinances", result.Ordinances),
		)
		return nil
	},
}

func init() {
	inferCmd.Flags().StringVar(&inferOrdinanceNumber, "ordinance", "", "limit to one ordinance number")
	rootCmd.AddCommand(inferCmd)
}
