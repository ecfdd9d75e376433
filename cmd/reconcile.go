package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the full reconciliation pipeline",
	Long:  "Links ordinances, infers readings, extracts resolutions, reconciles votes for past meetings, then rolls up dates. Stages run in order; per-meeting vote failures are collected, not fatal.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := newEngine(st).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		zap.L().Info("reconciliation complete",
			zap.Int("linked", result.Link.Linked),
			zap.Int("inferred", result.Infer.Updated),
			zap.Int("resolutions", result.Resolutions),
			zap.Int("resolutions_verified", result.Votes.ResolutionsUpdated),
			zap.Int("ordinances_voted", result.Votes.OrdinancesUpdated),
			zap.Int("dates_updated", result.DatesUpdated),
			zap.Strings("errors", result.Errors),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
