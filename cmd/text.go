package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var textCmd = &cobra.Command{
	Use:   "text <meeting-ref>",
	Short: "Capture resolution full text from a meeting's minutes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stored, err := newEngine(st).CaptureResolutionTexts(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "capture resolution texts for %s", args[0])
		}

		zap.L().Info("resolution text capture complete",
			zap.String("meeting", args[0]),
			zap.Int("stored", stored),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
}
