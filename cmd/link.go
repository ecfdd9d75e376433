package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link ordinance agenda references to meetings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := newEngine(st).LinkOrdinancesToMeetings(ctx)
		if err != nil {
			return eris.Wrap(err, "link ordinances")
		}

		zap.L().Info("linking complete",
			zap.Int("linked", result.Linked),
			zap.Strings("not_found", result.NotFound),
			zap.Strings("errors", result.Errors),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
