package store

import (
	"context"
	"time"

	"github.com/sells-group/civic-cli/internal/model"
)

// MeetingFilter specifies criteria for listing meetings.
type MeetingFilter struct {
	Before time.Time // only meetings strictly before this instant
	After  time.Time // only meetings strictly after this instant
	Limit  int
}

// Store defines the persistence contract for the civic record store.
//
// All upserts are keyed on natural keys (ordinance/resolution number, the
// (ordinance, meeting) composite for links) so every reconciliation pass is
// safe to re-run. Fields populated by external syncs or verified vote data
// (municode_url, summary, adopted_date once set, outcome_verified) are
// protected: ordinary upserts never overwrite them. The UpdateIf* primitives
// are the only writes allowed to confirm protected state, and each guards on
// current row state rather than overwriting unconditionally.
type Store interface {
	// Meetings (created by ingestion, read-only to the reconciliation core)
	UpsertMeeting(ctx context.Context, m model.Meeting) error
	GetMeeting(ctx context.Context, id string) (*model.Meeting, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]model.Meeting, error)

	// Agenda items
	UpsertAgendaItems(ctx context.Context, items []model.AgendaItem) error
	ListAgendaItems(ctx context.Context, meetingID string) ([]model.AgendaItem, error)
	// ListAgendaItemsByType returns items of one type, optionally scoped to a
	// meeting (empty meetingID means all meetings), ordered by meeting date
	// then agenda order.
	ListAgendaItemsByType(ctx context.Context, t model.AgendaItemType, meetingID string) ([]model.AgendaItem, error)

	// Ordinances
	// GetOrdinanceByNumber returns (nil, nil) when no record exists.
	GetOrdinanceByNumber(ctx context.Context, number string) (*model.Ordinance, error)
	// FindOrdinanceByNumberContains is the resolver's low-confidence substring
	// fallback: first ordinance whose canonical number contains fragment.
	FindOrdinanceByNumberContains(ctx context.Context, fragment string) (*model.Ordinance, error)
	ListOrdinances(ctx context.Context) ([]model.Ordinance, error)
	// UpsertOrdinance merges by number and returns the stored row. A terminal
	// status is never regressed and protected fields are kept once set.
	UpsertOrdinance(ctx context.Context, o model.Ordinance) (*model.Ordinance, error)
	// UpdateOrdinanceStatusIfProposed advances status (and optionally
	// adopted_date) only when the current status is still 'proposed'.
	// Returns false when the guard did not hold.
	UpdateOrdinanceStatusIfProposed(ctx context.Context, id string, status model.OrdinanceStatus, adoptedDate *time.Time) (bool, error)
	// SetOrdinanceDates writes rolled-up dates; returns true if the row changed.
	SetOrdinanceDates(ctx context.Context, id string, introduced, adopted *time.Time) (bool, error)

	// Ordinance-meeting links
	UpsertLink(ctx context.Context, link model.OrdinanceMeetingLink) error
	// EnsureLink inserts a link only if the composite key is absent, keeping
	// any previously recorded action intact.
	EnsureLink(ctx context.Context, link model.OrdinanceMeetingLink) error
	UpdateLinkAction(ctx context.Context, ordinanceID, meetingID string, action model.LinkAction) error
	// ListLinksForOrdinance returns links with meeting dates, ordered by
	// meeting date ascending.
	ListLinksForOrdinance(ctx context.Context, ordinanceID string) ([]model.LinkedMeeting, error)
	// ListOrdinancesForMeeting returns the ordinances linked to one meeting.
	ListOrdinancesForMeeting(ctx context.Context, meetingID string) ([]model.Ordinance, error)

	// Resolutions
	GetResolutionByNumber(ctx context.Context, number string) (*model.Resolution, error)
	ListResolutions(ctx context.Context) ([]model.Resolution, error)
	// ListUnverifiedResolutions returns resolutions with outcome_verified=0,
	// optionally scoped to their introducing meeting.
	ListUnverifiedResolutions(ctx context.Context, meetingID string) ([]model.Resolution, error)
	// UpsertResolution merges by number. Rows with outcome_verified=1 are
	// left untouched entirely; introduced_date only ever moves earlier.
	UpsertResolution(ctx context.Context, r model.Resolution) (*model.Resolution, error)
	// UpdateResolutionOutcomeIfUnverified applies a vote-confirmed outcome
	// only when outcome_verified is still 0. Returns false when the guard
	// did not hold.
	UpdateResolutionOutcomeIfUnverified(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) (bool, error)
	// CorrectResolutionOutcome is the explicit admin correction path. It is
	// the only write allowed to modify a verified resolution.
	CorrectResolutionOutcome(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) error
	// SetResolutionText stores fallback-extracted resolution full text.
	SetResolutionText(ctx context.Context, id, text string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
