package reconcile

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/resolve"
	"github.com/sells-group/civic-cli/internal/store"
)

// LinkOrdinancesToMeetings walks every ordinance-type agenda item with a
// reference number, resolves the reference, and records an
// ordinance-meeting link. The first reference to an unknown canonical
// number creates the ordinance as proposed; references carrying no number
// token at all land in NotFound. Failures are isolated per item.
func (e *Engine) LinkOrdinancesToMeetings(ctx context.Context) (*LinkResult, error) {
	log := zap.L().With(zap.String("component", "linker"))
	result := &LinkResult{}

	meetings, err := e.store.ListMeetings(ctx, store.MeetingFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "link: list meetings")
	}

	resolver := resolve.NewResolver(e.store)
	resolver.SetYearLookback(e.lookback)

	for _, meeting := range meetings {
		items, err := e.store.ListAgendaItemsByType(ctx, model.AgendaItemOrdinance, meeting.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("meeting %s: %v", meeting.ID, err))
			continue
		}

		for _, item := range items {
			if item.ReferenceNumber == "" {
				continue
			}
			if err := e.linkItem(ctx, resolver, meeting, item, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("item %s: %v", item.ID, err))
			}
		}
	}

	log.Info("ordinance linking complete",
		zap.Int("linked", result.Linked),
		zap.Int("not_found", len(result.NotFound)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (e *Engine) linkItem(ctx context.Context, resolver *resolve.Resolver, meeting model.Meeting, item model.AgendaItem, result *LinkResult) error {
	token, ok := resolve.ExtractNumberToken(item.ReferenceNumber)
	if !ok {
		result.NotFound = append(result.NotFound, item.ReferenceNumber)
		return nil
	}
	if !resolver.MarkProcessed(meeting.ID, token) {
		return nil
	}

	resolved, err := resolver.ResolveOrdinance(ctx, item.ReferenceNumber)
	if err != nil {
		return err
	}

	var ordinance model.Ordinance
	if resolved != nil {
		ordinance = resolved.Ordinance
	} else {
		// First reference creates the canonical record.
		created, err := e.store.UpsertOrdinance(ctx, model.Ordinance{
			Number: token,
			Title:  item.Title,
			Status: model.OrdinanceStatusProposed,
		})
		if err != nil {
			return err
		}
		ordinance = *created
	}

	link := model.OrdinanceMeetingLink{
		OrdinanceID: ordinance.ID,
		MeetingID:   meeting.ID,
	}
	if action, explicit := resolve.MatchActionKeyword(item.Outcome); explicit {
		// An explicit signal overwrites whatever the link carried.
		link.Action = action
		if err := e.store.UpsertLink(ctx, link); err != nil {
			return err
		}
	} else {
		// No signal: record the mention but never clobber an action a prior
		// inference or vote pass already derived.
		link.Action = model.ActionDiscussed
		if err := e.store.EnsureLink(ctx, link); err != nil {
			return err
		}
	}

	result.Linked++
	return nil
}
