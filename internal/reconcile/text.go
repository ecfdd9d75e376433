package reconcile

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
)

// CaptureResolutionTexts extracts the verbatim text of resolutions introduced
// at one past meeting from the minutes document and stores it. Enrichment
// only: it writes raw_text and nothing else, so verified outcomes are safe.
// Resolutions that already carry text are skipped. Returns how many texts
// were stored.
func (e *Engine) CaptureResolutionTexts(ctx context.Context, meetingRef string) (int, error) {
	log := zap.L().With(zap.String("component", "text_capture"), zap.String("meeting", meetingRef))
	if e.minutes == nil || e.extractor == nil {
		return 0, nil
	}

	meeting, err := e.store.GetMeeting(ctx, meetingRef)
	if err != nil {
		return 0, eris.Wrapf(err, "text: get meeting %s", meetingRef)
	}
	if meeting == nil {
		return 0, eris.Errorf("text: meeting not found: %s", meetingRef)
	}
	if meeting.Status(e.now()) != model.MeetingStatusPast {
		return 0, nil
	}

	all, err := e.store.ListResolutions(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "text: list resolutions")
	}
	var pending []model.Resolution
	for _, r := range all {
		if r.MeetingID == meeting.ID && r.RawText == "" {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	doc, err := e.minutes.FetchMinutes(ctx, meeting.ID)
	if err != nil {
		return 0, eris.Wrapf(err, "text: fetch minutes for %s", meeting.ID)
	}

	stored := 0
	for _, r := range pending {
		found, text, err := e.extractor.ExtractResolutionText(ctx, doc, r.Number)
		if err != nil {
			// One bad extraction never blocks the rest of the meeting.
			log.Warn("resolution text extraction failed",
				zap.String("resolution", r.Number), zap.Error(err))
			continue
		}
		if !found {
			continue
		}
		if err := e.store.SetResolutionText(ctx, r.ID, text); err != nil {
			return stored, eris.Wrapf(err, "text: store text for %s", r.Number)
		}
		stored++
	}

	log.Info("resolution text capture complete", zap.Int("stored", stored))
	return stored, nil
}
