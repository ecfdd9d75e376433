package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/civic-cli/internal/model"
)

const outcomesSystemPrompt = `You read municipal meeting minutes and report how each agenda item was voted on.
Respond with a JSON array only, no prose. Each element:
{"item_title": string, "motion": "approve"|"deny"|"table"|"unknown", "result": "passed"|"failed"|"tabled", "yes": int, "no": int}
Only include items where the minutes record an actual motion and vote. If unsure about a field, use "unknown" for motion and omit the item rather than guessing the result.`

const resolutionTextSystemPrompt = `You read municipal meeting minutes and locate the full text of one resolution.
Respond with JSON only: {"found": bool, "text": string}. Set found=false when the document does not contain the resolution's text verbatim.`

// DocumentExtractor pulls structured data out of minutes text with a model
// call and validates the result before returning it.
type DocumentExtractor struct {
	completer Completer
}

// NewDocumentExtractor creates an extractor over the given Completer.
func NewDocumentExtractor(c Completer) *DocumentExtractor {
	return &DocumentExtractor{completer: c}
}

type outcomePayload struct {
	ItemTitle string `json:"item_title"`
	Motion    string `json:"motion"`
	Result    string `json:"result"`
	Yes       int    `json:"yes"`
	No        int    `json:"no"`
}

// ExtractOutcomes asks the model for vote outcomes recorded in a minutes
// document. Items whose motion or result fail validation are dropped; an
// unparseable response is an error, not silent data.
func (x *DocumentExtractor) ExtractOutcomes(ctx context.Context, document []byte, items []model.AgendaItem) ([]model.VoteOutcome, error) {
	var titles strings.Builder
	for _, it := range items {
		fmt.Fprintf(&titles, "- %s\n", it.Title)
	}
	prompt := fmt.Sprintf("Agenda items:\n%s\nMinutes:\n%s", titles.String(), string(document))

	raw, err := x.completer.Complete(ctx, outcomesSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var payload []outcomePayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, eris.Wrap(err, "extract: decode outcomes response")
	}

	outcomes := make([]model.VoteOutcome, 0, len(payload))
	for _, p := range payload {
		motion, result, ok := validateVote(p.Motion, p.Result)
		if !ok {
			continue
		}
		if strings.TrimSpace(p.ItemTitle) == "" {
			continue
		}
		outcomes = append(outcomes, model.VoteOutcome{
			ItemTitle: p.ItemTitle,
			Motion:    motion,
			Result:    result,
			YesCount:  p.Yes,
			NoCount:   p.No,
		})
	}
	return outcomes, nil
}

type resolutionTextPayload struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

// ExtractResolutionText asks the model for the verbatim text of one
// resolution within a minutes document.
func (x *DocumentExtractor) ExtractResolutionText(ctx context.Context, document []byte, number string) (bool, string, error) {
	prompt := fmt.Sprintf("Resolution number: %s\n\nMinutes:\n%s", number, string(document))

	raw, err := x.completer.Complete(ctx, resolutionTextSystemPrompt, prompt)
	if err != nil {
		return false, "", err
	}

	var payload resolutionTextPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return false, "", eris.Wrap(err, "extract: decode resolution text response")
	}
	if !payload.Found || strings.TrimSpace(payload.Text) == "" {
		return false, "", nil
	}
	return true, payload.Text, nil
}

func validateVote(motion, result string) (model.Motion, model.VoteResult, bool) {
	m := model.Motion(strings.ToLower(strings.TrimSpace(motion)))
	switch m {
	case model.MotionApprove, model.MotionDeny, model.MotionTable, model.MotionUnknown:
	default:
		return "", "", false
	}
	r := model.VoteResult(strings.ToLower(strings.TrimSpace(result)))
	switch r {
	case model.VoteResultPassed, model.VoteResultFailed, model.VoteResultTabled:
	default:
		return "", "", false
	}
	return m, r, true
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
