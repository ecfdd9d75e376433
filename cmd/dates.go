package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Roll up ordinance introduced/adopted dates from linked meetings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		updated, err := newEngine(st).UpdateOrdinanceDatesFromMeetings(ctx)
		if err != nil {
			return eris.Wrap(err, "update dates")
		}

		zap.L().Info("date rollup complete", zap.Int("updated", updated))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}
