package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/civic-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetMeeting_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, date, title FROM meetings WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	m, err := s.GetMeeting(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertMeeting(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO meetings .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("m1", pgxmock.AnyArg(), "Regular Council Meeting").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertMeeting(context.Background(), model.Meeting{
		ID: "m1", Date: time.Now(), Title: "Regular Council Meeting",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListMeetings_WithFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, date, title FROM meetings WHERE 1=1 AND date < \$1 ORDER BY date ASC LIMIT \$2`).
		WithArgs(before, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date", "title"}).
			AddRow("m1", time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC), "Council"))

	meetings, err := s.ListMeetings(context.Background(), MeetingFilter{Before: before, Limit: 5})
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "m1", meetings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOrdinanceByNumber_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, number, title, status, introduced_date, adopted_date, municode_url, summary FROM ordinances WHERE number = \$1`).
		WithArgs("9999").
		WillReturnError(pgx.ErrNoRows)

	o, err := s.GetOrdinanceByNumber(context.Background(), "9999")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindOrdinanceByNumberContains(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`position\(\$1 in number\)`).
		WithArgs("773").
		WillReturnRows(pgxmock.NewRows([]string{"id", "number", "title", "status", "introduced_date", "adopted_date", "municode_url", "summary"}).
			AddRow("o1", "2024-773", "Zoning", "proposed", nil, nil, "", ""))

	o, err := s.FindOrdinanceByNumberContains(context.Background(), "773")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "2024-773", o.Number)
	assert.Equal(t, model.OrdinanceStatusProposed, o.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateOrdinanceStatusIfProposed_GuardFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE ordinances SET status = \$1.*status = 'proposed'`).
		WithArgs("adopted", pgxmock.AnyArg(), "o1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.UpdateOrdinanceStatusIfProposed(context.Background(), "o1", model.OrdinanceStatusAdopted, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetOrdinanceDates_NoChange(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	introduced := time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE ordinances SET introduced_date = \$1, adopted_date = \$2`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "o1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	changed, err := s.SetOrdinanceDates(context.Background(), "o1", &introduced, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureLink_DoesNothingOnConflict(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO ordinance_meetings .* ON CONFLICT \(ordinance_id, meeting_id\) DO NOTHING`).
		WithArgs("o1", "m1", "discussed").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := s.EnsureLink(context.Background(), model.OrdinanceMeetingLink{
		OrdinanceID: "o1", MeetingID: "m1", Action: model.ActionDiscussed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateLinkAction_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE ordinance_meetings SET action = \$1`).
		WithArgs("adopted", "o1", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateLinkAction(context.Background(), "o1", "missing", model.ActionAdopted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertResolution_GuardsVerified(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO resolutions .* WHERE resolutions\.outcome_verified = FALSE`).
		WithArgs(pgxmock.AnyArg(), "2024-15", "Street repair", "proposed",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "m1", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT id, number, title, status, introduced_date, adopted_date, meeting_id, outcome_verified, raw_text FROM resolutions WHERE number = \$1`).
		WithArgs("2024-15").
		WillReturnRows(pgxmock.NewRows([]string{"id", "number", "title", "status", "introduced_date", "adopted_date", "meeting_id", "outcome_verified", "raw_text"}).
			AddRow("r1", "2024-15", "Street repair", "proposed", nil, nil, "m1", false, ""))

	r, err := s.UpsertResolution(context.Background(), model.Resolution{
		Number: "2024-15", Title: "Street repair", MeetingID: "m1",
	})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "r1", r.ID)
	assert.False(t, r.OutcomeVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateResolutionOutcomeIfUnverified_GuardFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE resolutions SET status = \$1.*outcome_verified = FALSE`).
		WithArgs("adopted", pgxmock.AnyArg(), true, "r1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.UpdateResolutionOutcomeIfUnverified(context.Background(), "r1", model.ResolutionStatusAdopted, nil, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CorrectResolutionOutcome_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE resolutions SET status = \$1, adopted_date = \$2, outcome_verified = \$3 WHERE id = \$4`).
		WithArgs("rejected", pgxmock.AnyArg(), true, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CorrectResolutionOutcome(context.Background(), "missing", model.ResolutionStatusRejected, nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListUnverifiedResolutions_Scoped(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`WHERE outcome_verified = FALSE AND meeting_id = \$1`).
		WithArgs("m1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "number", "title", "status", "introduced_date", "adopted_date", "meeting_id", "outcome_verified", "raw_text"}).
			AddRow("r1", "2024-15", "Street repair", "pending_minutes", nil, nil, "m1", false, ""))

	resolutions, err := s.ListUnverifiedResolutions(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, resolutions, 1)
	assert.Equal(t, model.ResolutionStatusPendingMinutes, resolutions[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
