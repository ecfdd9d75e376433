package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/civic-cli/internal/model"
)

// meetingPayload matches the portal's meeting detail endpoint.
type meetingPayload struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"`
	Title       string              `json:"title"`
	AgendaItems []agendaItemPayload `json:"agenda_items"`
}

type agendaItemPayload struct {
	ID              string `json:"id"`
	Order           int    `json:"order"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	ReferenceNumber string `json:"reference_number"`
	Outcome         string `json:"outcome"`
}

// FetchMeeting retrieves a meeting and its agenda items from the portal.
func (c *Client) FetchMeeting(ctx context.Context, ref string) (*model.Meeting, []model.AgendaItem, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/meetings/%s", c.opts.BaseURL, ref))
	if err != nil {
		return nil, nil, err
	}

	var payload meetingPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, eris.Wrapf(err, "portal: decode meeting %s", ref)
	}
	date, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		// Some portal pages carry date-only values.
		date, err = time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "portal: parse meeting date %q", payload.Date)
		}
	}

	meeting := &model.Meeting{ID: payload.ID, Date: date.UTC(), Title: payload.Title}
	items := make([]model.AgendaItem, 0, len(payload.AgendaItems))
	for _, it := range payload.AgendaItems {
		items = append(items, model.AgendaItem{
			ID:              it.ID,
			MeetingID:       payload.ID,
			OrderNum:        it.Order,
			Title:           it.Title,
			Type:            parseItemType(it.Type),
			ReferenceNumber: it.ReferenceNumber,
			Outcome:         it.Outcome,
		})
	}
	return meeting, items, nil
}

func parseItemType(s string) model.AgendaItemType {
	switch model.AgendaItemType(s) {
	case model.AgendaItemOrdinance, model.AgendaItemResolution, model.AgendaItemPublicHearing,
		model.AgendaItemNewBusiness, model.AgendaItemReport:
		return model.AgendaItemType(s)
	}
	return model.AgendaItemOther
}
