package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/ingest"
)

var importSeedPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import meetings and agenda items from a YAML seed file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := ingest.ImportFile(ctx, st, importSeedPath)
		if err != nil {
			return eris.Wrap(err, "import seed")
		}

		zap.L().Info("import complete",
			zap.Int("meetings", res.Meetings),
			zap.Int("items", res.Items),
			zap.String("file", importSeedPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSeedPath, "file", "", "path to YAML seed file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
