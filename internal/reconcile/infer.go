package reconcile

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
)

// InferReadingsFromDiscussed derives lifecycle actions for ordinances whose
// links are all still "discussed", i.e. where the source text carried no
// explicit signal. Pass an ordinance number to scope to one record, empty
// string for all.
//
// Rules, first applicable wins per ordinance:
//   - one linked meeting: it becomes the first reading;
//   - two or more, adoption independently confirmed with a date within the
//     tolerance of the second meeting: first_reading then adopted;
//   - otherwise only the first meeting is called the first reading.
//
// An ordinance with any explicit action already recorded is skipped entirely;
// the engine fills gaps, it never overrides explicit signals. Re-running
// after a successful pass is a no-op because the all-discussed precondition
// no longer holds.
func (e *Engine) InferReadingsFromDiscussed(ctx context.Context, ordinanceNumber string) (*InferResult, error) {
	log := zap.L().With(zap.String("component", "inference"))
	result := &InferResult{}

	var ordinances []model.Ordinance
	if ordinanceNumber != "" {
		o, err := e.store.GetOrdinanceByNumber(ctx, ordinanceNumber)
		if err != nil {
			return nil, eris.Wrapf(err, "infer: get ordinance %s", ordinanceNumber)
		}
		if o == nil {
			return result, nil
		}
		ordinances = []model.Ordinance{*o}
	} else {
		var err error
		ordinances, err = e.store.ListOrdinances(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "infer: list ordinances")
		}
	}

	for _, ordinance := range ordinances {
		updated, err := e.inferOrdinance(ctx, ordinance)
		if err != nil {
			// One bad ordinance must not stall the rest of the sweep.
			log.Warn("inference failed", zap.String("number", ordinance.Number), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("ordinance %s: %v", ordinance.Number, err))
			continue
		}
		if updated > 0 {
			result.Updated += updated
			result.Ordinances = append(result.Ordinances, ordinance.Number)
		}
	}

	log.Info("reading inference complete",
		zap.Int("updated", result.Updated),
		zap.Int("ordinances", len(result.Ordinances)),
	)
	return result, nil
}

func (e *Engine) inferOrdinance(ctx context.Context, ordinance model.Ordinance) (int, error) {
	links, err := e.store.ListLinksForOrdinance(ctx, ordinance.ID)
	if err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 0, nil
	}
	for _, lm := range links {
		if lm.Link.Action != model.ActionDiscussed {
			return 0, nil
		}
	}

	first := links[0]
	if err := e.store.UpdateLinkAction(ctx, first.Link.OrdinanceID, first.Link.MeetingID, model.ActionFirstReading); err != nil {
		return 0, err
	}
	updated := 1

	if len(links) >= 2 && ordinance.Status == model.OrdinanceStatusAdopted && ordinance.AdoptedDate != nil {
		second := links[1]
		gap := second.MeetingDate.Sub(*ordinance.AdoptedDate)
		if gap < 0 {
			gap = -gap
		}
		if gap <= e.tolerance {
			if err := e.store.UpdateLinkAction(ctx, second.Link.OrdinanceID, second.Link.MeetingID, model.ActionAdopted); err != nil {
				return updated, err
			}
			updated++
		}
		// Outside the tolerance the second meeting stays discussed: the
		// date mismatch downgrades the inference rather than erroring.
	}

	return updated, nil
}
