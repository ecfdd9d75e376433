package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/store"
)

// Run executes one full reconciliation run in the load-bearing order:
// linking, reading inference, resolution extraction, vote reconciliation per
// past meeting, then date rollups. The order matters: inference reads the
// links linking created, the extraction upsert would erase verified vote
// updates if it ran after reconciliation, and the date rollup reads actions
// both earlier passes set.
//
// Failures are isolated: a failing stage or meeting is recorded in Errors
// and the run continues with the rest.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	log := zap.L().With(zap.String("component", "reconcile_run"))
	result := &RunResult{}

	if link, err := e.LinkOrdinancesToMeetings(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("link: %v", err))
	} else {
		result.Link = *link
		result.Errors = append(result.Errors, link.Errors...)
	}

	if infer, err := e.InferReadingsFromDiscussed(ctx, ""); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("infer: %v", err))
	} else {
		result.Infer = *infer
		result.Errors = append(result.Errors, infer.Errors...)
	}

	if n, err := e.ExtractResolutionsFromAgendaItems(ctx, ""); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("resolutions: %v", err))
	} else {
		result.Resolutions = n
	}

	meetings, err := e.store.ListMeetings(ctx, store.MeetingFilter{Before: e.now()})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("votes: list meetings: %v", err))
	}
	for _, meeting := range meetings {
		votes, err := e.ReconcileVoteOutcomes(ctx, meeting.ID)
		if err != nil {
			// A failed portal or AI call for one meeting never blocks the rest.
			result.Errors = append(result.Errors, fmt.Sprintf("votes %s: %v", meeting.ID, err))
			continue
		}
		result.Votes.ResolutionsUpdated += votes.ResolutionsUpdated
		result.Votes.OrdinancesUpdated += votes.OrdinancesUpdated
	}

	if n, err := e.UpdateOrdinanceDatesFromMeetings(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("dates: %v", err))
	} else {
		result.DatesUpdated = n
	}

	log.Info("reconciliation run complete",
		zap.Int("linked", result.Link.Linked),
		zap.Int("inferred", result.Infer.Updated),
		zap.Int("resolutions", result.Resolutions),
		zap.Int("resolutions_updated", result.Votes.ResolutionsUpdated),
		zap.Int("ordinances_updated", result.Votes.OrdinancesUpdated),
		zap.Int("dates_changed", result.DatesUpdated),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}
