// Package reconcile merges loosely-structured legislative signals into the
// canonical record store: ordinance-meeting linking, lifecycle inference,
// resolution extraction, vote outcome reconciliation and date rollups.
package reconcile

import (
	"context"
	"time"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

// adoptionTolerance is how far a linked meeting date may sit from an
// independently confirmed adoption date before the meeting can no longer be
// called the adopting one.
const adoptionTolerance = 7 * 24 * time.Hour

// VoteSource fetches structured vote outcomes from the meeting portal.
// An empty slice signals "no structured data available, consider the
// fallback path".
type VoteSource interface {
	FetchVoteOutcomes(ctx context.Context, meetingRef string) ([]model.VoteOutcome, error)
}

// MinutesSource fetches the minutes document for a meeting, used only to
// feed the AI fallback extractor.
type MinutesSource interface {
	FetchMinutes(ctx context.Context, meetingRef string) ([]byte, error)
}

// Extractor is the AI-assisted document fallback. Its output is unreliable
// and is always validated against the matching rules before being trusted.
type Extractor interface {
	ExtractOutcomes(ctx context.Context, document []byte, items []model.AgendaItem) ([]model.VoteOutcome, error)
	ExtractResolutionText(ctx context.Context, document []byte, number string) (found bool, text string, err error)
}

// Engine runs the reconciliation pipeline over the record store.
//
// Processing is deliberately sequential: each meeting, resolution or vote
// fetch is handled one at a time, and no transaction is held across an
// external call. A failure on one item never aborts the rest of the batch.
type Engine struct {
	store     store.Store
	votes     VoteSource
	minutes   MinutesSource
	extractor Extractor
	tolerance time.Duration
	lookback  int
	now       func() time.Time
}

// NewEngine creates a reconciliation engine. votes, minutes and extractor
// may be nil; the corresponding paths are then skipped.
func NewEngine(st store.Store, votes VoteSource, minutes MinutesSource, extractor Extractor) *Engine {
	return &Engine{
		store:     st,
		votes:     votes,
		minutes:   minutes,
		extractor: extractor,
		tolerance: adoptionTolerance,
		now:       time.Now,
	}
}

// SetAdoptionTolerance overrides how far a linked meeting date may sit from a
// confirmed adoption date during reading inference. Non-positive values keep
// the default.
func (e *Engine) SetAdoptionTolerance(d time.Duration) {
	if d > 0 {
		e.tolerance = d
	}
}

// SetYearLookback overrides the resolver's bare-number year lookback for
// linking passes started by this engine.
func (e *Engine) SetYearLookback(n int) {
	e.lookback = n
}

// LinkResult aggregates one linking pass: how many links were written, which
// references could not be resolved, and which items failed outright.
type LinkResult struct {
	Linked   int      `json:"linked"`
	NotFound []string `json:"not_found,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// InferResult aggregates one inference pass.
type InferResult struct {
	Updated    int      `json:"updated"`
	Ordinances []string `json:"ordinances,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// VoteReconcileResult aggregates one vote reconciliation pass.
type VoteReconcileResult struct {
	ResolutionsUpdated int `json:"resolutions_updated"`
	OrdinancesUpdated  int `json:"ordinances_updated"`
}

// RunResult aggregates a full reconciliation run.
type RunResult struct {
	Link         LinkResult          `json:"link"`
	Infer        InferResult         `json:"infer"`
	Resolutions  int                 `json:"resolutions"`
	Votes        VoteReconcileResult `json:"votes"`
	DatesUpdated int                 `json:"dates_updated"`
	Errors       []string            `json:"errors,omitempty"`
}
