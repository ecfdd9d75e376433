package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync [meeting-ref...]",
	Short: "Fetch meetings and agendas from the portal into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("reconcile"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		client := newPortalClient()
		if client == nil {
			return eris.New("portal base URL is required (CIVIC_PORTAL_BASE_URL)")
		}

		for _, ref := range args {
			meeting, items, err := client.FetchMeeting(ctx, ref)
			if err != nil {
				return eris.Wrapf(err, "fetch meeting %s", ref)
			}
			if err := st.UpsertMeeting(ctx, *meeting); err != nil {
				return eris.Wrapf(err, "upsert meeting %s", ref)
			}
			if len(items) > 0 {
				if err := st.UpsertAgendaItems(ctx, items); err != nil {
					return eris.Wrapf(err, "upsert agenda items for %s", ref)
				}
			}
			zap.L().Info("meeting synced",
				zap.String("meeting", meeting.ID),
				zap.Int("items", len(items)),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
