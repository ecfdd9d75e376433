package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
)

var (
	correctStatus      string
	correctAdoptedDate string
	correctUnverify    bool
)

var correctCmd = &cobra.Command{
	Use:   "correct <resolution-number>",
	Short: "Correct a verified resolution outcome",
	Long:  "The only write path allowed to modify a resolution whose outcome has been verified. Corrections are logged with before and after state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := st.GetResolutionByNumber(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "get resolution %s", args[0])
		}
		if res == nil {
			return eris.Errorf("resolution %s not found", args[0])
		}

		status := model.ResolutionStatus(correctStatus)
		switch status {
		case model.ResolutionStatusProposed, model.ResolutionStatusPendingMinutes,
			model.ResolutionStatusAdopted, model.ResolutionStatusRejected, model.ResolutionStatusTabled:
		default:
			return eris.Errorf("unknown status %q", correctStatus)
		}

		var adopted *time.Time
		if status == model.ResolutionStatusAdopted {
			if correctAdoptedDate == "" {
				return eris.New("--adopted-date is required when status is adopted")
			}
			d, err := time.Parse("2006-01-02", correctAdoptedDate)
			if err != nil {
				return eris.Wrap(err, "parse adopted date")
			}
			adopted = &d
		} else if correctAdoptedDate != "" {
			return eris.New("--adopted-date is only valid with status adopted")
		}

		if err := st.CorrectResolutionOutcome(ctx, res.ID, status, adopted, !correctUnverify); err != nil {
			return eris.Wrapf(err, "correct resolution %s", args[0])
		}

		zap.L().Info("resolution outcome corrected",
			zap.String("number", res.Number),
			zap.String("old_status", string(res.Status)),
			zap.String("new_status", string(status)),
			zap.Bool("was_verified", res.OutcomeVerified),
			zap.Bool("now_verified", !correctUnverify),
		)
		return nil
	},
}

func init() {
	correctCmd.Flags().StringVar(&correctStatus, "status", "", "corrected status (required)")
	correctCmd.Flags().StringVar(&correctAdoptedDate, "adopted-date", "", "adopted date (YYYY-MM-DD, required when status is adopted)")
	correctCmd.Flags().BoolVar(&correctUnverify, "unverify", false, "reopen the record for reconciliation instead of keeping it verified")
	rootCmd.AddCommand(correctCmd)
}
