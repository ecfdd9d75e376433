package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var votesCmd = &cobra.Command{
	Use:   "votes <meeting-ref>",
	Short: "Reconcile vote outcomes for one past meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := newEngine(st).ReconcileVoteOutcomes(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "reconcile votes for %s", args[0])
		}

		zap.L().Info("vote reconciliation complete",
			zap.String("meeting", args[0]),
			zap.Int("resolutions_updated", result.ResolutionsUpdated),
			zap.Int("ordinances_updated", result.OrdinancesUpdated),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(votesCmd)
}
