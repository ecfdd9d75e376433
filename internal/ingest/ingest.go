// Package ingest loads meetings and agenda items from YAML seed files into
// the store. Seed files are the offline alternative to the portal sync and
// are handy for backfilling historical meetings the portal no longer serves.
package ingest

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

type seedFile struct {
	Meetings []seedMeeting `yaml:"meetings"`
}

type seedMeeting struct {
	ID    string     `yaml:"id"`
	Date  string     `yaml:"date"`
	Title string     `yaml:"title"`
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	ID              string `yaml:"id"`
	Order           int    `yaml:"order"`
	Title           string `yaml:"title"`
	Type            string `yaml:"type"`
	ReferenceNumber string `yaml:"reference_number"`
	Outcome         string `yaml:"outcome"`
}

// Result summarizes one import run.
type Result struct {
	Meetings int
	Items    int
}

// ImportFile loads one YAML seed file and upserts its contents.
func ImportFile(ctx context.Context, st store.Store, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return Import(ctx, st, data)
}

// Import parses YAML seed data and upserts meetings and agenda items.
// Missing IDs are generated; dates accept YYYY-MM-DD or RFC 3339.
func Import(ctx context.Context, st store.Store, data []byte) (*Result, error) {
	log := zap.L().With(zap.String("component", "ingest"))

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, eris.Wrap(err, "ingest: parse seed file")
	}

	res := &Result{}
	for i, sm := range seed.Meetings {
		meeting, items, err := buildMeeting(sm)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: meeting %d", i)
		}
		if err := st.UpsertMeeting(ctx, *meeting); err != nil {
			return nil, eris.Wrapf(err, "ingest: upsert meeting %s", meeting.ID)
		}
		if len(items) > 0 {
			if err := st.UpsertAgendaItems(ctx, items); err != nil {
				return nil, eris.Wrapf(err, "ingest: upsert items for meeting %s", meeting.ID)
			}
		}
		res.Meetings++
		res.Items += len(items)
	}

	log.Info("seed import complete",
		zap.Int("meetings", res.Meetings),
		zap.Int("items", res.Items))
	return res, nil
}

func buildMeeting(sm seedMeeting) (*model.Meeting, []model.AgendaItem, error) {
	if strings.TrimSpace(sm.Title) == "" {
		return nil, nil, eris.New("ingest: meeting title is required")
	}
	date, err := parseDate(sm.Date)
	if err != nil {
		return nil, nil, err
	}

	meeting := &model.Meeting{
		ID:    sm.ID,
		Date:  date,
		Title: sm.Title,
	}
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}

	items := make([]model.AgendaItem, 0, len(sm.Items))
	for j, si := range sm.Items {
		item, err := buildItem(meeting.ID, j, si)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return meeting, items, nil
}

func buildItem(meetingID string, idx int, si seedItem) (model.AgendaItem, error) {
	if strings.TrimSpace(si.Title) == "" {
		return model.AgendaItem{}, eris.Errorf("ingest: item %d: title is required", idx)
	}

	itemType := model.AgendaItemType(si.Type)
	switch itemType {
	case model.AgendaItemOrdinance, model.AgendaItemResolution, model.AgendaItemPublicHearing,
		model.AgendaItemNewBusiness, model.AgendaItemReport, model.AgendaItemOther:
	case "":
		itemType = model.AgendaItemOther
	default:
		return model.AgendaItem{}, eris.Errorf("ingest: item %d: unknown type %q", idx, si.Type)
	}

	order := si.Order
	if order == 0 {
		order = idx + 1
	}

	item := model.AgendaItem{
		ID:              si.ID,
		MeetingID:       meetingID,
		OrderNum:        order,
		Title:           si.Title,
		Type:            itemType,
		ReferenceNumber: si.ReferenceNumber,
		Outcome:         si.Outcome,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return item, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, eris.New("ingest: meeting date is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, eris.Errorf("ingest: unparseable date %q", s)
	}
	return t, nil
}
