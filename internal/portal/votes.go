package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/civic-cli/internal/model"
)

// votesPayload matches the portal's vote page endpoint.
type votesPayload struct {
	Votes []votePayload `json:"votes"`
}

type votePayload struct {
	ItemTitle string `json:"item_title"`
	Motion    string `json:"motion"`
	Result    string `json:"result"`
	Yes       int    `json:"yes"`
	No        int    `json:"no"`
}

// FetchVoteOutcomes retrieves structured vote outcomes for a meeting.
// A portal page without vote data yields an empty slice, which signals the
// caller to consider the AI minutes fallback.
func (c *Client) FetchVoteOutcomes(ctx context.Context, meetingRef string) ([]model.VoteOutcome, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/meetings/%s/votes", c.opts.BaseURL, meetingRef))
	if err != nil {
		// A missing vote page is the portal's way of saying "no structured
		// data"; only real failures propagate.
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var payload votesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrapf(err, "portal: decode votes for %s", meetingRef)
	}

	outcomes := make([]model.VoteOutcome, 0, len(payload.Votes))
	for _, v := range payload.Votes {
		result, ok := parseResult(v.Result)
		if !ok {
			// A vote row without a recognizable result is noise, not data.
			continue
		}
		outcomes = append(outcomes, model.VoteOutcome{
			ItemTitle: v.ItemTitle,
			Motion:    parseMotion(v.Motion),
			Result:    result,
			YesCount:  v.Yes,
			NoCount:   v.No,
		})
	}
	return outcomes, nil
}

// FetchMinutes retrieves the minutes document for a meeting, for the AI
// fallback extractor.
func (c *Client) FetchMinutes(ctx context.Context, meetingRef string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/meetings/%s/minutes.pdf", c.opts.BaseURL, meetingRef))
}

func parseMotion(s string) model.Motion {
	switch model.Motion(strings.ToLower(s)) {
	case model.MotionApprove, model.MotionDeny, model.MotionTable:
		return model.Motion(strings.ToLower(s))
	}
	return model.MotionUnknown
}

func parseResult(s string) (model.VoteResult, bool) {
	switch r := model.VoteResult(strings.ToLower(s)); r {
	case model.VoteResultPassed, model.VoteResultFailed, model.VoteResultTabled:
		return r, true
	}
	return "", false
}

func isStatus(err error, code int) bool {
	return strings.Contains(err.Error(), fmt.Sprintf("status %d", code))
}
