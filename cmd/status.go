package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/civic-cli/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show register counts by entity and status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		meetings, err := st.ListMeetings(ctx, store.MeetingFilter{})
		if err != nil {
			return eris.Wrap(err, "list meetings")
		}
		ordinances, err := st.ListOrdinances(ctx)
		if err != nil {
			return eris.Wrap(err, "list ordinances")
		}
		resolutions, err := st.ListResolutions(ctx)
		if err != nil {
			return eris.Wrap(err, "list resolutions")
		}

		now := time.Now()
		past, upcoming := 0, 0
		for _, m := range meetings {
			if m.Date.After(now) {
				upcoming++
			} else {
				past++
			}
		}

		ordByStatus := map[string]int{}
		for _, o := range ordinances {
			ordByStatus[string(o.Status)]++
		}
		resByStatus := map[string]int{}
		verified := 0
		for _, r := range resolutions {
			resByStatus[string(r.Status)]++
			if r.OutcomeVerified {
				verified++
			}
		}

		fmt.Printf("Meetings:    %d (%d past, %d upcoming)\n", len(meetings), past, upcoming)
		fmt.Printf("Ordinances:  %d\n", len(ordinances))
		printStatusCounts(ordByStatus)
		fmt.Printf("Resolutions: %d (%d verified)\n", len(resolutions), verified)
		printStatusCounts(resByStatus)

		return nil
	},
}

func printStatusCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-16s %d\n", k, counts[k])
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
