package reconcile

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/resolve"
)

// ReconcileVoteOutcomes merges vote data for one past meeting into its
// unverified resolutions and proposed ordinances. The portal vote source is
// authoritative; when it has nothing, the AI minutes fallback is consulted.
// Every resolution write is guarded on outcome_verified = 0 and every
// status-changing ordinance write on status = 'proposed', so the pass is
// safe to re-run and safe after partial prior runs.
func (e *Engine) ReconcileVoteOutcomes(ctx context.Context, meetingRef string) (*VoteReconcileResult, error) {
	log := zap.L().With(zap.String("component", "vote_reconciler"), zap.String("meeting", meetingRef))
	result := &VoteReconcileResult{}

	meeting, err := e.store.GetMeeting(ctx, meetingRef)
	if err != nil {
		return nil, eris.Wrapf(err, "votes: get meeting %s", meetingRef)
	}
	if meeting == nil {
		return nil, eris.Errorf("votes: meeting not found: %s", meetingRef)
	}
	if meeting.Status(e.now()) != model.MeetingStatusPast {
		return result, nil
	}

	resolutions, err := e.store.ListUnverifiedResolutions(ctx, meeting.ID)
	if err != nil {
		return nil, eris.Wrap(err, "votes: list unverified resolutions")
	}
	ordinances, err := e.proposedOrdinances(ctx, meeting.ID)
	if err != nil {
		return nil, err
	}
	if len(resolutions) == 0 && len(ordinances) == 0 {
		return result, nil
	}

	outcomes, err := e.fetchOutcomes(ctx, *meeting)
	if err != nil {
		return nil, err
	}

	for _, outcome := range outcomes {
		// A single vote item matches at most one resolution and at most one
		// ordinance, each tested independently.
		if res := matchResolution(outcome, resolutions); res != nil {
			applied, err := e.applyResolutionVote(ctx, *res, outcome, meeting.Date)
			if err != nil {
				return result, err
			}
			if applied {
				result.ResolutionsUpdated++
			}
		}
		if ord := matchOrdinance(outcome, ordinances); ord != nil {
			applied, err := e.applyOrdinanceVote(ctx, *ord, outcome, *meeting)
			if err != nil {
				return result, err
			}
			if applied {
				result.OrdinancesUpdated++
			}
		}
	}

	log.Info("vote reconciliation complete",
		zap.Int("resolutions_updated", result.ResolutionsUpdated),
		zap.Int("ordinances_updated", result.OrdinancesUpdated),
	)
	return result, nil
}

// fetchOutcomes tries the authoritative portal source first and falls back
// to AI extraction over the minutes document when the portal has no
// structured data.
func (e *Engine) fetchOutcomes(ctx context.Context, meeting model.Meeting) ([]model.VoteOutcome, error) {
	var outcomes []model.VoteOutcome
	if e.votes != nil {
		var err error
		outcomes, err = e.votes.FetchVoteOutcomes(ctx, meeting.ID)
		if err != nil {
			return nil, eris.Wrapf(err, "votes: fetch outcomes for %s", meeting.ID)
		}
	}
	if len(outcomes) > 0 || e.extractor == nil || e.minutes == nil {
		return outcomes, nil
	}

	doc, err := e.minutes.FetchMinutes(ctx, meeting.ID)
	if err != nil {
		return nil, eris.Wrapf(err, "votes: fetch minutes for %s", meeting.ID)
	}
	items, err := e.store.ListAgendaItems(ctx, meeting.ID)
	if err != nil {
		return nil, eris.Wrap(err, "votes: list agenda items")
	}
	outcomes, err = e.extractor.ExtractOutcomes(ctx, doc, items)
	if err != nil {
		return nil, eris.Wrapf(err, "votes: extract outcomes for %s", meeting.ID)
	}
	zap.L().Info("using AI fallback vote outcomes",
		zap.String("meeting", meeting.ID),
		zap.Int("outcomes", len(outcomes)),
	)
	return outcomes, nil
}

func (e *Engine) proposedOrdinances(ctx context.Context, meetingID string) ([]model.Ordinance, error) {
	linked, err := e.store.ListOrdinancesForMeeting(ctx, meetingID)
	if err != nil {
		return nil, eris.Wrap(err, "votes: list linked ordinances")
	}
	var proposed []model.Ordinance
	for _, o := range linked {
		if o.Status == model.OrdinanceStatusProposed {
			proposed = append(proposed, o)
		}
	}
	return proposed, nil
}

func matchResolution(outcome model.VoteOutcome, resolutions []model.Resolution) *model.Resolution {
	for i := range resolutions {
		if resolve.MatchesResolutionVote(outcome.ItemTitle, resolutions[i].Number) {
			return &resolutions[i]
		}
	}
	return nil
}

func matchOrdinance(outcome model.VoteOutcome, ordinances []model.Ordinance) *model.Ordinance {
	for i := range ordinances {
		if resolve.MatchesOrdinanceVote(outcome.ItemTitle, ordinances[i].Number) {
			return &ordinances[i]
		}
	}
	return nil
}

// resolutionStatusForVote maps motion x result to a resolution status.
func resolutionStatusForVote(outcome model.VoteOutcome) model.ResolutionStatus {
	switch outcome.Result {
	case model.VoteResultPassed:
		switch outcome.Motion {
		case model.MotionTable:
			return model.ResolutionStatusTabled
		case model.MotionDeny:
			return model.ResolutionStatusRejected
		default:
			return model.ResolutionStatusAdopted
		}
	case model.VoteResultFailed:
		return model.ResolutionStatusRejected
	default:
		return model.ResolutionStatusTabled
	}
}

func (e *Engine) applyResolutionVote(ctx context.Context, res model.Resolution, outcome model.VoteOutcome, meetingDate time.Time) (bool, error) {
	status := resolutionStatusForVote(outcome)
	var adopted *time.Time
	if status == model.ResolutionStatusAdopted {
		d := meetingDate
		adopted = &d
	}
	applied, err := e.store.UpdateResolutionOutcomeIfUnverified(ctx, res.ID, status, adopted, true)
	if err != nil {
		return false, eris.Wrapf(err, "votes: update resolution %s", res.Number)
	}
	return applied, nil
}

func (e *Engine) applyOrdinanceVote(ctx context.Context, ord model.Ordinance, outcome model.VoteOutcome, meeting model.Meeting) (bool, error) {
	setAction := func(action model.LinkAction) error {
		return e.store.UpdateLinkAction(ctx, ord.ID, meeting.ID, action)
	}
	setStatus := func(status model.OrdinanceStatus, adopted *time.Time) (bool, error) {
		applied, err := e.store.UpdateOrdinanceStatusIfProposed(ctx, ord.ID, status, adopted)
		if err != nil {
			return false, eris.Wrapf(err, "votes: update ordinance %s", ord.Number)
		}
		return applied, nil
	}

	switch {
	case outcome.Motion == model.MotionDeny && outcome.Result == model.VoteResultPassed:
		if err := setAction(model.ActionDenied); err != nil {
			return false, err
		}
		return setStatus(model.OrdinanceStatusDenied, nil)

	case outcome.Motion == model.MotionApprove && outcome.Result == model.VoteResultPassed:
		if resolve.MentionsSecondReading(outcome.ItemTitle) {
			if err := setAction(model.ActionAdopted); err != nil {
				return false, err
			}
			adopted := meeting.Date
			return setStatus(model.OrdinanceStatusAdopted, &adopted)
		}
		// Passed on first reading: the link advances, the status stays.
		if err := setAction(model.ActionFirstReadingPassed); err != nil {
			return false, err
		}
		return true, nil

	case outcome.Result == model.VoteResultFailed:
		if err := setAction(model.ActionFailed); err != nil {
			return false, err
		}
		return true, nil

	case outcome.Result == model.VoteResultTabled:
		if err := setAction(model.ActionTabled); err != nil {
			return false, err
		}
		return setStatus(model.OrdinanceStatusTabled, nil)

	default:
		if err := setAction(model.ActionVoted); err != nil {
			return false, err
		}
		return true, nil
	}
}
