package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/export"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ordinance and resolution registers to XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := export.WriteRegister(ctx, st, exportPath)
		if err != nil {
			return eris.Wrap(err, "export register")
		}

		zap.L().Info("export complete",
			zap.String("path", exportPath),
			zap.Int("ordinances", res.Ordinances),
			zap.Int("resolutions", res.Resolutions),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "out", "register.xlsx", "output XLSX path")
	rootCmd.AddCommand(exportCmd)
}
