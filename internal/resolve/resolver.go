package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

// yearLookback is how many calendar years of prefixes are tried for bare
// number tokens. The municipality switched to year-prefixed numbering; older
// agendas still cite bare numbers.
const yearLookback = 6

// Resolver resolves free-text ordinance references to canonical records.
//
// Resolution is deterministic for a fixed store snapshot. The per-run seen
// set keyed on (meetingID, normalized number) guarantees no two canonical
// entities are created for the same logical ordinance within one run.
type Resolver struct {
	store    store.Store
	now      func() time.Time
	seen     map[string]struct{}
	lookback int
}

// NewResolver creates a Resolver scoped to one reconciliation run.
func NewResolver(st store.Store) *Resolver {
	return &Resolver{
		store:    st,
		now:      time.Now,
		seen:     make(map[string]struct{}),
		lookback: yearLookback,
	}
}

// SetYearLookback overrides how many calendar years of prefixes are tried for
// bare number tokens. Non-positive values keep the default.
func (r *Resolver) SetYearLookback(n int) {
	if n > 0 {
		r.lookback = n
	}
}

// ResolveOrdinance resolves a raw reference to an existing ordinance record.
// Lookup order, first hit wins: exact number, year-prefixed retry for bare
// tokens (most recent year first), then a low-confidence substring match.
// Returns (nil, nil) when nothing matches.
func (r *Resolver) ResolveOrdinance(ctx context.Context, rawReference string) (*model.ResolvedOrdinance, error) {
	token, ok := ExtractNumberToken(rawReference)
	if !ok {
		return nil, nil
	}

	o, err := r.store.GetOrdinanceByNumber(ctx, token)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: exact lookup %q", token)
	}
	if o != nil {
		return &model.ResolvedOrdinance{Ordinance: *o, Provenance: model.MatchExact}, nil
	}

	if !HasYearPrefix(token) {
		currentYear := r.now().Year()
		for year := currentYear; year > currentYear-r.lookback; year-- {
			candidate := fmt.Sprintf("%d-%s", year, token)
			o, err := r.store.GetOrdinanceByNumber(ctx, candidate)
			if err != nil {
				return nil, eris.Wrapf(err, "resolve: year-prefixed lookup %q", candidate)
			}
			if o != nil {
				return &model.ResolvedOrdinance{Ordinance: *o, Provenance: model.MatchYearPrefixed}, nil
			}
		}
	}

	// Last resort: substring match. This can misattribute across ordinances
	// whose numbers are textual substrings of one another ("73" vs "173");
	// the provenance marks the match as low confidence instead of hiding it.
	o, err = r.store.FindOrdinanceByNumberContains(ctx, token)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: substring lookup %q", token)
	}
	if o != nil {
		zap.L().Debug("resolver substring match",
			zap.String("reference", rawReference),
			zap.String("token", token),
			zap.String("matched_number", o.Number),
		)
		return &model.ResolvedOrdinance{Ordinance: *o, Provenance: model.MatchSubstring}, nil
	}
	return nil, nil
}

// MarkProcessed records that a (meeting, number) pair was handled this run.
// Returns false if it was already marked, so callers skip duplicates instead
// of creating a second canonical entity for the same logical ordinance.
func (r *Resolver) MarkProcessed(meetingID, number string) bool {
	key := meetingID + "\x00" + number
	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}
