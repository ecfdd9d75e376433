package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/civic-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS meetings (
	id    TEXT PRIMARY KEY,
	date  TIMESTAMPTZ NOT NULL,
	title TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS agenda_items (
	id               TEXT PRIMARY KEY,
	meeting_id       TEXT NOT NULL REFERENCES meetings(id),
	order_num        INTEGER NOT NULL DEFAULT 0,
	title            TEXT NOT NULL DEFAULT '',
	type             TEXT NOT NULL DEFAULT 'other',
	reference_number TEXT,
	outcome          TEXT
);

CREATE TABLE IF NOT EXISTS ordinances (
	id              TEXT PRIMARY KEY,
	number          TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'proposed',
	introduced_date TIMESTAMPTZ,
	adopted_date    TIMESTAMPTZ,
	municode_url    TEXT NOT NULL DEFAULT '',
	summary         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS ordinance_meetings (
	ordinance_id TEXT NOT NULL REFERENCES ordinances(id),
	meeting_id   TEXT NOT NULL REFERENCES meetings(id),
	action       TEXT NOT NULL DEFAULT 'discussed',
	PRIMARY KEY (ordinance_id, meeting_id)
);

CREATE TABLE IF NOT EXISTS resolutions (
	id               TEXT PRIMARY KEY,
	number           TEXT NOT NULL UNIQUE,
	title            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'proposed',
	introduced_date  TIMESTAMPTZ,
	adopted_date     TIMESTAMPTZ,
	meeting_id       TEXT NOT NULL DEFAULT '',
	outcome_verified BOOLEAN NOT NULL DEFAULT FALSE,
	raw_text         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date);
CREATE INDEX IF NOT EXISTS idx_agenda_items_meeting ON agenda_items(meeting_id);
CREATE INDEX IF NOT EXISTS idx_agenda_items_type ON agenda_items(type);
CREATE INDEX IF NOT EXISTS idx_ordinances_status ON ordinances(status);
CREATE INDEX IF NOT EXISTS idx_ordinance_meetings_meeting ON ordinance_meetings(meeting_id);
CREATE INDEX IF NOT EXISTS idx_resolutions_meeting ON resolutions(meeting_id);
CREATE INDEX IF NOT EXISTS idx_resolutions_verified ON resolutions(outcome_verified);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Meetings

func (s *PostgresStore) UpsertMeeting(ctx context.Context, m model.Meeting) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO meetings (id, date, title) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, title = EXCLUDED.title`,
		m.ID, m.Date.UTC(), m.Title,
	)
	return eris.Wrapf(err, "postgres: upsert meeting %s", m.ID)
}

func (s *PostgresStore) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	var m model.Meeting
	err := s.pool.QueryRow(ctx,
		`SELECT id, date, title FROM meetings WHERE id = $1`, id,
	).Scan(&m.ID, &m.Date, &m.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get meeting %s", id)
	}
	return &m, nil
}

func (s *PostgresStore) ListMeetings(ctx context.Context, filter MeetingFilter) ([]model.Meeting, error) {
	query := `SELECT id, date, title FROM meetings WHERE 1=1`
	var args []any

	if !filter.Before.IsZero() {
		args = append(args, filter.Before.UTC())
		query += fmt.Sprintf(` AND date < $%d`, len(args))
	}
	if !filter.After.IsZero() {
		args = append(args, filter.After.UTC())
		query += fmt.Sprintf(` AND date > $%d`, len(args))
	}
	query += ` ORDER BY date ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list meetings")
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.ID, &m.Date, &m.Title); err != nil {
			return nil, eris.Wrap(err, "postgres: scan meeting")
		}
		meetings = append(meetings, m)
	}
	return meetings, eris.Wrap(rows.Err(), "postgres: list meetings iterate")
}

// Agenda items

func (s *PostgresStore) UpsertAgendaItems(ctx context.Context, items []model.AgendaItem) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO agenda_items (id, meeting_id, order_num, title, type, reference_number, outcome)
			 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
			 ON CONFLICT (id) DO UPDATE SET
				order_num        = EXCLUDED.order_num,
				title            = EXCLUDED.title,
				type             = EXCLUDED.type,
				reference_number = EXCLUDED.reference_number,
				outcome          = EXCLUDED.outcome`,
			it.ID, it.MeetingID, it.OrderNum, it.Title, string(it.Type), it.ReferenceNumber, it.Outcome,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert agenda item %s", it.ID)
		}
	}
	return nil
}

func (s *PostgresStore) ListAgendaItems(ctx context.Context, meetingID string) ([]model.AgendaItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, meeting_id, order_num, title, type, COALESCE(reference_number, ''), COALESCE(outcome, '')
		 FROM agenda_items WHERE meeting_id = $1 ORDER BY order_num ASC`,
		meetingID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list agenda items for %s", meetingID)
	}
	defer rows.Close()
	return pgScanAgendaItems(rows)
}

func (s *PostgresStore) ListAgendaItemsByType(ctx context.Context, t model.AgendaItemType, meetingID string) ([]model.AgendaItem, error) {
	query := `SELECT ai.id, ai.meeting_id, ai.order_num, ai.title, ai.type,
	                 COALESCE(ai.reference_number, ''), COALESCE(ai.outcome, '')
	          FROM agenda_items ai JOIN meetings m ON m.id = ai.meeting_id
	          WHERE ai.type = $1`
	args := []any{string(t)}
	if meetingID != "" {
		args = append(args, meetingID)
		query += ` AND ai.meeting_id = $2`
	}
	query += ` ORDER BY m.date ASC, ai.order_num ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list agenda items of type %s", t)
	}
	defer rows.Close()
	return pgScanAgendaItems(rows)
}

// Ordinances

const pgSelectOrdinance = `SELECT id, number, title, status, introduced_date, adopted_date, municode_url, summary FROM ordinances`

func (s *PostgresStore) GetOrdinanceByNumber(ctx context.Context, number string) (*model.Ordinance, error) {
	return s.queryOrdinance(ctx, pgSelectOrdinance+` WHERE number = $1`, number)
}

func (s *PostgresStore) FindOrdinanceByNumberContains(ctx context.Context, fragment string) (*model.Ordinance, error) {
	return s.queryOrdinance(ctx,
		pgSelectOrdinance+` WHERE position($1 in number) > 0 ORDER BY number ASC LIMIT 1`,
		fragment,
	)
}

func (s *PostgresStore) queryOrdinance(ctx context.Context, query string, args ...any) (*model.Ordinance, error) {
	o, err := pgScanOrdinance(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get ordinance")
	}
	return o, nil
}

func (s *PostgresStore) ListOrdinances(ctx context.Context) ([]model.Ordinance, error) {
	rows, err := s.pool.Query(ctx, pgSelectOrdinance+` ORDER BY number ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ordinances")
	}
	defer rows.Close()
	return pgScanOrdinances(rows)
}

func (s *PostgresStore) UpsertOrdinance(ctx context.Context, o model.Ordinance) (*model.Ordinance, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = model.OrdinanceStatusProposed
	}

	// Same merge rules as the SQLite backend: keep terminal status unless the
	// incoming row is itself terminal, protect adopted_date/municode_url/summary
	// once set, shrink introduced_date only.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ordinances (id, number, title, status, introduced_date, adopted_date, municode_url, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (number) DO UPDATE SET
			title = CASE WHEN EXCLUDED.title != '' THEN EXCLUDED.title ELSE ordinances.title END,
			status = CASE
				WHEN ordinances.status IN ('adopted','denied','rejected','tabled') THEN ordinances.status
				WHEN EXCLUDED.status IN ('adopted','denied','rejected','tabled') THEN EXCLUDED.status
				ELSE ordinances.status
			END,
			introduced_date = LEAST(ordinances.introduced_date, EXCLUDED.introduced_date),
			adopted_date = COALESCE(ordinances.adopted_date, EXCLUDED.adopted_date),
			municode_url = CASE WHEN ordinances.municode_url != '' THEN ordinances.municode_url ELSE EXCLUDED.municode_url END,
			summary      = CASE WHEN ordinances.summary != '' THEN ordinances.summary ELSE EXCLUDED.summary END`,
		o.ID, o.Number, o.Title, string(o.Status), o.IntroducedDate, o.AdoptedDate, o.MunicodeURL, o.Summary,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert ordinance %s", o.Number)
	}
	return s.GetOrdinanceByNumber(ctx, o.Number)
}

func (s *PostgresStore) UpdateOrdinanceStatusIfProposed(ctx context.Context, id string, status model.OrdinanceStatus, adoptedDate *time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ordinances SET status = $1, adopted_date = COALESCE($2, adopted_date)
		 WHERE id = $3 AND status = 'proposed'`,
		string(status), adoptedDate, id,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: update ordinance status %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) SetOrdinanceDates(ctx context.Context, id string, introduced, adopted *time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ordinances SET introduced_date = $1, adopted_date = $2
		 WHERE id = $3 AND (introduced_date IS DISTINCT FROM $1 OR adopted_date IS DISTINCT FROM $2)`,
		introduced, adopted, id,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: set ordinance dates %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

// Links

func (s *PostgresStore) UpsertLink(ctx context.Context, link model.OrdinanceMeetingLink) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ordinance_meetings (ordinance_id, meeting_id, action) VALUES ($1, $2, $3)
		 ON CONFLICT (ordinance_id, meeting_id) DO UPDATE SET action = EXCLUDED.action`,
		link.OrdinanceID, link.MeetingID, string(link.Action),
	)
	return eris.Wrapf(err, "postgres: upsert link %s/%s", link.OrdinanceID, link.MeetingID)
}

func (s *PostgresStore) EnsureLink(ctx context.Context, link model.OrdinanceMeetingLink) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ordinance_meetings (ordinance_id, meeting_id, action) VALUES ($1, $2, $3)
		 ON CONFLICT (ordinance_id, meeting_id) DO NOTHING`,
		link.OrdinanceID, link.MeetingID, string(link.Action),
	)
	return eris.Wrapf(err, "postgres: ensure link %s/%s", link.OrdinanceID, link.MeetingID)
}

func (s *PostgresStore) UpdateLinkAction(ctx context.Context, ordinanceID, meetingID string, action model.LinkAction) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ordinance_meetings SET action = $1 WHERE ordinance_id = $2 AND meeting_id = $3`,
		string(action), ordinanceID, meetingID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update link action %s/%s", ordinanceID, meetingID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("link not found: %s/%s", ordinanceID, meetingID)
	}
	return nil
}

func (s *PostgresStore) ListLinksForOrdinance(ctx context.Context, ordinanceID string) ([]model.LinkedMeeting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT om.ordinance_id, om.meeting_id, om.action, m.date
		 FROM ordinance_meetings om JOIN meetings m ON m.id = om.meeting_id
		 WHERE om.ordinance_id = $1 ORDER BY m.date ASC`,
		ordinanceID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list links for ordinance %s", ordinanceID)
	}
	defer rows.Close()

	var links []model.LinkedMeeting
	for rows.Next() {
		var lm model.LinkedMeeting
		var action string
		if err := rows.Scan(&lm.Link.OrdinanceID, &lm.Link.MeetingID, &action, &lm.MeetingDate); err != nil {
			return nil, eris.Wrap(err, "postgres: scan link")
		}
		lm.Link.Action = model.LinkAction(action)
		links = append(links, lm)
	}
	return links, eris.Wrap(rows.Err(), "postgres: list links iterate")
}

func (s *PostgresStore) ListOrdinancesForMeeting(ctx context.Context, meetingID string) ([]model.Ordinance, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT o.id, o.number, o.title, o.status, o.introduced_date, o.adopted_date, o.municode_url, o.summary
		 FROM ordinances o JOIN ordinance_meetings om ON om.ordinance_id = o.id
		 WHERE om.meeting_id = $1 ORDER BY o.number ASC`,
		meetingID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list ordinances for meeting %s", meetingID)
	}
	defer rows.Close()
	return pgScanOrdinances(rows)
}

// Resolutions

const pgSelectResolution = `SELECT id, number, title, status, introduced_date, adopted_date, meeting_id, outcome_verified, raw_text FROM resolutions`

func (s *PostgresStore) GetResolutionByNumber(ctx context.Context, number string) (*model.Resolution, error) {
	r, err := pgScanResolution(s.pool.QueryRow(ctx, pgSelectResolution+` WHERE number = $1`, number))
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get resolution %s", number)
	}
	return r, nil
}

func (s *PostgresStore) ListResolutions(ctx context.Context) ([]model.Resolution, error) {
	rows, err := s.pool.Query(ctx, pgSelectResolution+` ORDER BY number ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list resolutions")
	}
	defer rows.Close()
	return pgScanResolutions(rows)
}

func (s *PostgresStore) ListUnverifiedResolutions(ctx context.Context, meetingID string) ([]model.Resolution, error) {
	query := pgSelectResolution + ` WHERE outcome_verified = FALSE`
	var args []any
	if meetingID != "" {
		args = append(args, meetingID)
		query += ` AND meeting_id = $1`
	}
	query += ` ORDER BY number ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list unverified resolutions")
	}
	defer rows.Close()
	return pgScanResolutions(rows)
}

func (s *PostgresStore) UpsertResolution(ctx context.Context, r model.Resolution) (*model.Resolution, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = model.ResolutionStatusProposed
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO resolutions (id, number, title, status, introduced_date, adopted_date, meeting_id, raw_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (number) DO UPDATE SET
			title = CASE WHEN EXCLUDED.title != '' THEN EXCLUDED.title ELSE resolutions.title END,
			status = EXCLUDED.status,
			introduced_date = LEAST(resolutions.introduced_date, EXCLUDED.introduced_date),
			adopted_date = COALESCE(resolutions.adopted_date, EXCLUDED.adopted_date),
			meeting_id = CASE WHEN EXCLUDED.meeting_id != '' THEN EXCLUDED.meeting_id ELSE resolutions.meeting_id END,
			raw_text = CASE WHEN resolutions.raw_text != '' THEN resolutions.raw_text ELSE EXCLUDED.raw_text END
		 WHERE resolutions.outcome_verified = FALSE`,
		r.ID, r.Number, r.Title, string(r.Status), r.IntroducedDate, r.AdoptedDate, r.MeetingID, r.RawText,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert resolution %s", r.Number)
	}
	return s.GetResolutionByNumber(ctx, r.Number)
}

func (s *PostgresStore) UpdateResolutionOutcomeIfUnverified(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE resolutions SET status = $1, adopted_date = $2, outcome_verified = $3
		 WHERE id = $4 AND outcome_verified = FALSE`,
		string(status), adoptedDate, verified, id,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: update resolution outcome %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) CorrectResolutionOutcome(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE resolutions SET status = $1, adopted_date = $2, outcome_verified = $3 WHERE id = $4`,
		string(status), adoptedDate, verified, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: correct resolution outcome %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("resolution not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) SetResolutionText(ctx context.Context, id, text string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE resolutions SET raw_text = $1 WHERE id = $2`,
		text, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set resolution text %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("resolution not found: %s", id)
	}
	return nil
}

// helpers

func pgScanOrdinance(row pgx.Row) (*model.Ordinance, error) {
	var o model.Ordinance
	var status string
	err := row.Scan(&o.ID, &o.Number, &o.Title, &status, &o.IntroducedDate, &o.AdoptedDate, &o.MunicodeURL, &o.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Status = model.OrdinanceStatus(status)
	return &o, nil
}

func pgScanOrdinances(rows pgx.Rows) ([]model.Ordinance, error) {
	var ords []model.Ordinance
	for rows.Next() {
		o, err := pgScanOrdinance(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan ordinance")
		}
		ords = append(ords, *o)
	}
	return ords, eris.Wrap(rows.Err(), "postgres: scan ordinances iterate")
}

func pgScanResolution(row pgx.Row) (*model.Resolution, error) {
	var r model.Resolution
	var status string
	err := row.Scan(&r.ID, &r.Number, &r.Title, &status, &r.IntroducedDate, &r.AdoptedDate, &r.MeetingID, &r.OutcomeVerified, &r.RawText)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Status = model.ResolutionStatus(status)
	return &r, nil
}

func pgScanResolutions(rows pgx.Rows) ([]model.Resolution, error) {
	var resolutions []model.Resolution
	for rows.Next() {
		r, err := pgScanResolution(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan resolution")
		}
		resolutions = append(resolutions, *r)
	}
	return resolutions, eris.Wrap(rows.Err(), "postgres: scan resolutions iterate")
}

func pgScanAgendaItems(rows pgx.Rows) ([]model.AgendaItem, error) {
	var items []model.AgendaItem
	for rows.Next() {
		var it model.AgendaItem
		var typ string
		if err := rows.Scan(&it.ID, &it.MeetingID, &it.OrderNum, &it.Title, &typ, &it.ReferenceNumber, &it.Outcome); err != nil {
			return nil, eris.Wrap(err, "postgres: scan agenda item")
		}
		it.Type = model.AgendaItemType(typ)
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "postgres: scan agenda items iterate")
}
