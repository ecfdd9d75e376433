package reconcile

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/resolve"
	"github.com/sells-group/civic-cli/internal/store"
)

// occurrence is one agenda-item mention of a resolution at one meeting.
type occurrence struct {
	meetingID   string
	meetingDate time.Time
	title       string
	outcome     string
}

// ExtractResolutionsFromAgendaItems groups resolution-type agenda items by
// normalized number and merges each group into one canonical resolution
// record. Pass a meeting ID to restrict which numbers are considered; the
// merge itself always spans every meeting mentioning the number, so the
// introduced date only ever moves earlier. Returns the number of resolution
// records upserted.
func (e *Engine) ExtractResolutionsFromAgendaItems(ctx context.Context, meetingID string) (int, error) {
	log := zap.L().With(zap.String("component", "resolution_extractor"))

	// All occurrences across all meetings; the meeting scope only filters
	// which groups get merged this pass.
	items, err := e.store.ListAgendaItemsByType(ctx, model.AgendaItemResolution, "")
	if err != nil {
		return 0, eris.Wrap(err, "extract: list resolution agenda items")
	}

	meetingDates, err := e.meetingDates(ctx)
	if err != nil {
		return 0, err
	}

	groups := make(map[string][]occurrence)
	scoped := make(map[string]bool)
	for _, item := range items {
		if item.ReferenceNumber == "" {
			continue
		}
		number, ok := resolve.ExtractResolutionNumberToken(item.ReferenceNumber)
		if !ok {
			continue
		}
		date, ok := meetingDates[item.MeetingID]
		if !ok {
			continue
		}
		groups[number] = append(groups[number], occurrence{
			meetingID:   item.MeetingID,
			meetingDate: date,
			title:       item.Title,
			outcome:     item.Outcome,
		})
		if meetingID == "" || item.MeetingID == meetingID {
			scoped[number] = true
		}
	}

	count := 0
	for number, occurrences := range groups {
		if !scoped[number] {
			continue
		}
		record := e.mergeOccurrences(number, occurrences)
		if _, err := e.store.UpsertResolution(ctx, record); err != nil {
			return count, eris.Wrapf(err, "extract: upsert resolution %s", number)
		}
		count++
	}

	log.Info("resolution extraction complete", zap.Int("resolutions", count))
	return count, nil
}

// mergeOccurrences folds all mentions of one resolution number into a single
// record. Occurrences are evaluated in meeting-date order; a later mention
// can upgrade the status but never downgrades one already derived as adopted.
func (e *Engine) mergeOccurrences(number string, occurrences []occurrence) model.Resolution {
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].meetingDate.Before(occurrences[j].meetingDate)
	})

	first := occurrences[0]
	introduced := first.meetingDate
	record := model.Resolution{
		Number:         number,
		Title:          cleanResolutionTitle(first.title, number),
		Status:         model.ResolutionStatusProposed,
		IntroducedDate: &introduced,
		MeetingID:      first.meetingID,
	}

	now := e.now()
	for _, occ := range occurrences {
		var status model.ResolutionStatus
		switch {
		case occ.meetingDate.After(now):
			status = model.ResolutionStatusProposed
		default:
			classified, hasOutcome := resolve.ClassifyOutcome(occ.outcome)
			if hasOutcome {
				status = classified
			} else {
				status = model.ResolutionStatusPendingMinutes
			}
		}

		if record.Status == model.ResolutionStatusAdopted {
			continue
		}
		record.Status = status
		if status == model.ResolutionStatusAdopted && record.AdoptedDate == nil {
			adopted := occ.meetingDate
			record.AdoptedDate = &adopted
		}
	}
	return record
}

func (e *Engine) meetingDates(ctx context.Context) (map[string]time.Time, error) {
	meetings, err := e.store.ListMeetings(ctx, store.MeetingFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "extract: list meetings")
	}
	dates := make(map[string]time.Time, len(meetings))
	for _, m := range meetings {
		dates[m.ID] = m.Date
	}
	return dates, nil
}

var (
	considerBoilerplateRe = regexp.MustCompile(`(?i)^consider(?:ation of)?\s+(?:a\s+)?resolution\s+(?:no\.?\s*)?[\d-]*\s*[-:,]?\s*`)
	leadingToRe           = regexp.MustCompile(`(?i)^to\s+`)
)

var titleCaser = cases.Title(language.AmericanEnglish)

// cleanResolutionTitle strips agenda boilerplate ("Consider Resolution
// 25-012 to ...") and capitalizes the remainder. Falls back to the raw title
// when stripping eats everything.
func cleanResolutionTitle(raw, number string) string {
	title := strings.TrimSpace(raw)
	title = considerBoilerplateRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(strings.TrimPrefix(title, number))
	title = leadingToRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)
	if title == "" {
		return strings.TrimSpace(raw)
	}
	// Agenda systems frequently shout in all caps; fold those to title case.
	if title == strings.ToUpper(title) && strings.ContainsFunc(title, unicode.IsLetter) {
		title = titleCaser.String(strings.ToLower(title))
	}
	return capitalizeFirst(title)
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
