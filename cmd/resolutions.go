package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolutionsMeetingID string

var resolutionsCmd = &cobra.Command{
	Use:   "resolutions",
	Short: "Extract resolution records from resolution-type agenda items",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := newEngine(st).ExtractResolutionsFromAgendaItems(ctx, resolutionsMeetingID)
		if err != nil {
			return eris.Wrap(err, "extract resolutions")
		}

		zap.L().Info("resolution extraction complete", zap.Int("upserted", count))
		return nil
	},
}

func init() {
	resolutionsCmd.Flags().StringVar(&resolutionsMeetingID, "meeting", "", "limit to one meeting ID")
	rootCmd.AddCommand(resolutionsCmd)
}
