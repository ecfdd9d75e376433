package reconcile

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
)

// UpdateOrdinanceDatesFromMeetings recomputes each ordinance's introduced and
// adopted dates from its linked meetings. Must run after both reading
// inference and vote reconciliation, which set the link actions it reads.
// Returns the number of rows actually changed.
func (e *Engine) UpdateOrdinanceDatesFromMeetings(ctx context.Context) (int, error) {
	ordinances, err := e.store.ListOrdinances(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "dates: list ordinances")
	}

	changed := 0
	for _, ordinance := range ordinances {
		links, err := e.store.ListLinksForOrdinance(ctx, ordinance.ID)
		if err != nil {
			return changed, eris.Wrapf(err, "dates: list links for %s", ordinance.Number)
		}
		if len(links) == 0 {
			continue
		}

		// Links are ordered by meeting date, so the first is the
		// introduction. An externally confirmed adopted date is kept when no
		// link carries an adopted action.
		introduced := links[0].MeetingDate
		adopted := ordinance.AdoptedDate
		for _, lm := range links {
			if lm.Link.Action == model.ActionAdopted {
				d := lm.MeetingDate
				adopted = &d
				break
			}
		}

		if sameDate(ordinance.IntroducedDate, &introduced) && sameDate(ordinance.AdoptedDate, adopted) {
			continue
		}
		updated, err := e.store.SetOrdinanceDates(ctx, ordinance.ID, &introduced, adopted)
		if err != nil {
			return changed, eris.Wrapf(err, "dates: set dates for %s", ordinance.Number)
		}
		if updated {
			changed++
		}
	}

	zap.L().Info("ordinance date rollup complete", zap.Int("changed", changed))
	return changed, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
