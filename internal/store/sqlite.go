package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/civic-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS meetings (
	id    TEXT PRIMARY KEY,
	date  DATETIME NOT NULL,
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
	introduced_date DATETIME,
	adopted_date    DATETIME,
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
	introduced_date  DATETIME,
	adopted_date     DATETIME,
	meeting_id       TEXT NOT NULL DEFAULT '',
	outcome_verified INTEGER NOT NULL DEFAULT 0,
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Meetings

func (s *SQLiteStore) UpsertMeeting(ctx context.Context, m model.Meeting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meetings (id, date, title) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET date = excluded.date, title = excluded.title`,
		m.ID, m.Date.UTC(), m.Title,
	)
	return eris.Wrapf(err, "sqlite: upsert meeting %s", m.ID)
}

func (s *SQLiteStore) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, title FROM meetings WHERE id = ?`, id,
	)
	var m model.Meeting
	err := row.Scan(&m.ID, &m.Date, &m.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get meeting %s", id)
	}
	return &m, nil
}

func (s *SQLiteStore) ListMeetings(ctx context.Context, filter MeetingFilter) ([]model.Meeting, error) {
	query := `SELECT id, date, title FROM meetings WHERE 1=1`
	var args []any

	if !filter.Before.IsZero() {
		query += ` AND date < ?`
		args = append(args, filter.Before.UTC())
	}
	if !filter.After.IsZero() {
		query += ` AND date > ?`
		args = append(args, filter.After.UTC())
	}
	query += ` ORDER BY date ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list meetings")
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.ID, &m.Date, &m.Title); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan meeting")
		}
		meetings = append(meetings, m)
	}
	return meetings, eris.Wrap(rows.Err(), "sqlite: list meetings iterate")
}

// Agenda items

func (s *SQLiteStore) UpsertAgendaItems(ctx context.Context, items []model.AgendaItem) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO agenda_items (id, meeting_id, order_num, title, type, reference_number, outcome)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				order_num        = excluded.order_num,
				title            = excluded.title,
				type             = excluded.type,
				reference_number = excluded.reference_number,
				outcome          = excluded.outcome`,
			it.ID, it.MeetingID, it.OrderNum, it.Title, string(it.Type),
			nullString(it.ReferenceNumber), nullString(it.Outcome),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert agenda item %s", it.ID)
		}
	}
	return nil
}

func (s *SQLiteStore) ListAgendaItems(ctx context.Context, meetingID string) ([]model.AgendaItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meeting_id, order_num, title, type, reference_number, outcome
		 FROM agenda_items WHERE meeting_id = ? ORDER BY order_num ASC`,
		meetingID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list agenda items for %s", meetingID)
	}
	defer rows.Close()
	return scanAgendaItems(rows)
}

func (s *SQLiteStore) ListAgendaItemsByType(ctx context.Context, t model.AgendaItemType, meetingID string) ([]model.AgendaItem, error) {
	query := `SELECT ai.id, ai.meeting_id, ai.order_num, ai.title, ai.type, ai.reference_number, ai.outcome
	          FROM agenda_items ai JOIN meetings m ON m.id = ai.meeting_id
	          WHERE ai.type = ?`
	args := []any{string(t)}
	if meetingID != "" {
		query += ` AND ai.meeting_id = ?`
		args = append(args, meetingID)
	}
	query += ` ORDER BY m.date ASC, ai.order_num ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list agenda items of type %s", t)
	}
	defer rows.Close()
	return scanAgendaItems(rows)
}

// Ordinances

func (s *SQLiteStore) GetOrdinanceByNumber(ctx context.Context, number string) (*model.Ordinance, error) {
	row := s.db.QueryRowContext(ctx, selectOrdinance+` WHERE number = ?`, number)
	return scanOrdinance(row)
}

func (s *SQLiteStore) FindOrdinanceByNumberContains(ctx context.Context, fragment string) (*model.Ordinance, error) {
	row := s.db.QueryRowContext(ctx,
		selectOrdinance+` WHERE instr(number, ?) > 0 ORDER BY number ASC LIMIT 1`,
		fragment,
	)
	return scanOrdinance(row)
}

func (s *SQLiteStore) ListOrdinances(ctx context.Context) ([]model.Ordinance, error) {
	rows, err := s.db.QueryContext(ctx, selectOrdinance+` ORDER BY number ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ordinances")
	}
	defer rows.Close()

	var ords []model.Ordinance
	for rows.Next() {
		o, err := scanOrdinance(rows)
		if err != nil {
			return nil, err
		}
		ords = append(ords, *o)
	}
	return ords, eris.Wrap(rows.Err(), "sqlite: list ordinances iterate")
}

func (s *SQLiteStore) UpsertOrdinance(ctx context.Context, o model.Ordinance) (*model.Ordinance, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = model.OrdinanceStatusProposed
	}

	// Merge upsert: a terminal status is kept unless the incoming row carries
	// a terminal status itself (the external confirmation path); adopted_date,
	// municode_url and summary are protected once set; introduced_date only
	// ever moves earlier.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ordinances (id, number, title, status, introduced_date, adopted_date, municode_url, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(number) DO UPDATE SET
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE ordinances.title END,
			status = CASE
				WHEN ordinances.status IN ('adopted','denied','rejected','tabled') THEN ordinances.status
				WHEN excluded.status IN ('adopted','denied','rejected','tabled') THEN excluded.status
				ELSE ordinances.status
			END,
			introduced_date = CASE
				WHEN ordinances.introduced_date IS NULL THEN excluded.introduced_date
				WHEN excluded.introduced_date IS NULL THEN ordinances.introduced_date
				WHEN excluded.introduced_date < ordinances.introduced_date THEN excluded.introduced_date
				ELSE ordinances.introduced_date
			END,
			adopted_date = COALESCE(ordinances.adopted_date, excluded.adopted_date),
			municode_url = CASE WHEN ordinances.municode_url != '' THEN ordinances.municode_url ELSE excluded.municode_url END,
			summary      = CASE WHEN ordinances.summary != '' THEN ordinances.summary ELSE excluded.summary END`,
		o.ID, o.Number, o.Title, string(o.Status),
		nullTime(o.IntroducedDate), nullTime(o.AdoptedDate), o.MunicodeURL, o.Summary,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert ordinance %s", o.Number)
	}
	return s.GetOrdinanceByNumber(ctx, o.Number)
}

func (s *SQLiteStore) UpdateOrdinanceStatusIfProposed(ctx context.Context, id string, status model.OrdinanceStatus, adoptedDate *time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ordinances SET status = ?, adopted_date = COALESCE(?, adopted_date)
		 WHERE id = ? AND status = 'proposed'`,
		string(status), nullTime(adoptedDate), id,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: update ordinance status %s", id)
	}
	return rowsChanged(res)
}

func (s *SQLiteStore) SetOrdinanceDates(ctx context.Context, id string, introduced, adopted *time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ordinances SET introduced_date = ?, adopted_date = ?
		 WHERE id = ? AND (introduced_date IS NOT ? OR adopted_date IS NOT ?)`,
		nullTime(introduced), nullTime(adopted), id, nullTime(introduced), nullTime(adopted),
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: set ordinance dates %s", id)
	}
	return rowsChanged(res)
}

// Links

func (s *SQLiteStore) UpsertLink(ctx context.Context, link model.OrdinanceMeetingLink) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ordinance_meetings (ordinance_id, meeting_id, action) VALUES (?, ?, ?)
		 ON CONFLICT(ordinance_id, meeting_id) DO UPDATE SET action = excluded.action`,
		link.OrdinanceID, link.MeetingID, string(link.Action),
	)
	return eris.Wrapf(err, "sqlite: upsert link %s/%s", link.OrdinanceID, link.MeetingID)
}

func (s *SQLiteStore) EnsureLink(ctx context.Context, link model.OrdinanceMeetingLink) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ordinance_meetings (ordinance_id, meeting_id, action) VALUES (?, ?, ?)
		 ON CONFLICT(ordinance_id, meeting_id) DO NOTHING`,
		link.OrdinanceID, link.MeetingID, string(link.Action),
	)
	return eris.Wrapf(err, "sqlite: ensure link %s/%s", link.OrdinanceID, link.MeetingID)
}

func (s *SQLiteStore) UpdateLinkAction(ctx context.Context, ordinanceID, meetingID string, action model.LinkAction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ordinance_meetings SET action = ? WHERE ordinance_id = ? AND meeting_id = ?`,
		string(action), ordinanceID, meetingID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update link action %s/%s", ordinanceID, meetingID)
	}
	return checkRowsAffected(res, "link", ordinanceID+"/"+meetingID)
}

func (s *SQLiteStore) ListLinksForOrdinance(ctx context.Context, ordinanceID string) ([]model.LinkedMeeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT om.ordinance_id, om.meeting_id, om.action, m.date
		 FROM ordinance_meetings om JOIN meetings m ON m.id = om.meeting_id
		 WHERE om.ordinance_id = ? ORDER BY m.date ASC`,
		ordinanceID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list links for ordinance %s", ordinanceID)
	}
	defer rows.Close()

	var links []model.LinkedMeeting
	for rows.Next() {
		var lm model.LinkedMeeting
		var action string
		if err := rows.Scan(&lm.Link.OrdinanceID, &lm.Link.MeetingID, &action, &lm.MeetingDate); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan link")
		}
		lm.Link.Action = model.LinkAction(action)
		links = append(links, lm)
	}
	return links, eris.Wrap(rows.Err(), "sqlite: list links iterate")
}

func (s *SQLiteStore) ListOrdinancesForMeeting(ctx context.Context, meetingID string) ([]model.Ordinance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, o.number, o.title, o.status, o.introduced_date, o.adopted_date, o.municode_url, o.summary
		 FROM ordinances o JOIN ordinance_meetings om ON om.ordinance_id = o.id
		 WHERE om.meeting_id = ? ORDER BY o.number ASC`,
		meetingID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list ordinances for meeting %s", meetingID)
	}
	defer rows.Close()

	var ords []model.Ordinance
	for rows.Next() {
		o, err := scanOrdinance(rows)
		if err != nil {
			return nil, err
		}
		ords = append(ords, *o)
	}
	return ords, eris.Wrap(rows.Err(), "sqlite: list ordinances for meeting iterate")
}

// Resolutions

func (s *SQLiteStore) GetResolutionByNumber(ctx context.Context, number string) (*model.Resolution, error) {
	row := s.db.QueryRowContext(ctx, selectResolution+` WHERE number = ?`, number)
	return scanResolution(row)
}

func (s *SQLiteStore) ListResolutions(ctx context.Context) ([]model.Resolution, error) {
	rows, err := s.db.QueryContext(ctx, selectResolution+` ORDER BY number ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list resolutions")
	}
	defer rows.Close()
	return scanResolutions(rows)
}

func (s *SQLiteStore) ListUnverifiedResolutions(ctx context.Context, meetingID string) ([]model.Resolution, error) {
	query := selectResolution + ` WHERE outcome_verified = 0`
	var args []any
	if meetingID != "" {
		query += ` AND meeting_id = ?`
		args = append(args, meetingID)
	}
	query += ` ORDER BY number ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list unverified resolutions")
	}
	defer rows.Close()
	return scanResolutions(rows)
}

func (s *SQLiteStore) UpsertResolution(ctx context.Context, r model.Resolution) (*model.Resolution, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = model.ResolutionStatusProposed
	}

	// Merge upsert: rows whose outcome was verified by the vote reconciler are
	// never touched here; introduced_date only ever moves earlier; adopted_date
	// and raw_text are kept once set. outcome_verified is not writable on this
	// path at all.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, number, title, status, introduced_date, adopted_date, meeting_id, raw_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(number) DO UPDATE SET
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE resolutions.title END,
			status = excluded.status,
			introduced_date = CASE
				WHEN resolutions.introduced_date IS NULL THEN excluded.introduced_date
				WHEN excluded.introduced_date IS NULL THEN resolutions.introduced_date
				WHEN excluded.introduced_date < resolutions.introduced_date THEN excluded.introduced_date
				ELSE resolutions.introduced_date
			END,
			adopted_date = COALESCE(resolutions.adopted_date, excluded.adopted_date),
			meeting_id = CASE WHEN excluded.meeting_id != '' THEN excluded.meeting_id ELSE resolutions.meeting_id END,
			raw_text = CASE WHEN resolutions.raw_text != '' THEN resolutions.raw_text ELSE excluded.raw_text END
		 WHERE resolutions.outcome_verified = 0`,
		r.ID, r.Number, r.Title, string(r.Status),
		nullTime(r.IntroducedDate), nullTime(r.AdoptedDate), r.MeetingID, r.RawText,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert resolution %s", r.Number)
	}
	return s.GetResolutionByNumber(ctx, r.Number)
}

func (s *SQLiteStore) UpdateResolutionOutcomeIfUnverified(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resolutions SET status = ?, adopted_date = ?, outcome_verified = ?
		 WHERE id = ? AND outcome_verified = 0`,
		string(status), nullTime(adoptedDate), boolInt(verified), id,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: update resolution outcome %s", id)
	}
	return rowsChanged(res)
}

func (s *SQLiteStore) CorrectResolutionOutcome(ctx context.Context, id string, status model.ResolutionStatus, adoptedDate *time.Time, verified bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resolutions SET status = ?, adopted_date = ?, outcome_verified = ? WHERE id = ?`,
		string(status), nullTime(adoptedDate), boolInt(verified), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: correct resolution outcome %s", id)
	}
	return checkRowsAffected(res, "resolution", id)
}

func (s *SQLiteStore) SetResolutionText(ctx context.Context, id, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resolutions SET raw_text = ? WHERE id = ?`,
		text, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set resolution text %s", id)
	}
	return checkRowsAffected(res, "resolution", id)
}

// helpers

const selectOrdinance = `SELECT id, number, title, status, introduced_date, adopted_date, municode_url, summary FROM ordinances`
const selectResolution = `SELECT id, number, title, status, introduced_date, adopted_date, meeting_id, outcome_verified, raw_text FROM resolutions`

type scannable interface {
	Scan(dest ...any) error
}

func scanOrdinance(row scannable) (*model.Ordinance, error) {
	var o model.Ordinance
	var status string
	var introduced, adopted sql.NullTime

	err := row.Scan(&o.ID, &o.Number, &o.Title, &status, &introduced, &adopted, &o.MunicodeURL, &o.Summary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan ordinance")
	}
	o.Status = model.OrdinanceStatus(status)
	o.IntroducedDate = timePtr(introduced)
	o.AdoptedDate = timePtr(adopted)
	return &o, nil
}

func scanResolution(row scannable) (*model.Resolution, error) {
	var r model.Resolution
	var status string
	var introduced, adopted sql.NullTime
	var verified int

	err := row.Scan(&r.ID, &r.Number, &r.Title, &status, &introduced, &adopted, &r.MeetingID, &verified, &r.RawText)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan resolution")
	}
	r.Status = model.ResolutionStatus(status)
	r.IntroducedDate = timePtr(introduced)
	r.AdoptedDate = timePtr(adopted)
	r.OutcomeVerified = verified != 0
	return &r, nil
}

func scanResolutions(rows *sql.Rows) ([]model.Resolution, error) {
	var resolutions []model.Resolution
	for rows.Next() {
		r, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, *r)
	}
	return resolutions, eris.Wrap(rows.Err(), "sqlite: scan resolutions iterate")
}

func scanAgendaItems(rows *sql.Rows) ([]model.AgendaItem, error) {
	var items []model.AgendaItem
	for rows.Next() {
		var it model.AgendaItem
		var typ string
		var ref, outcome sql.NullString
		if err := rows.Scan(&it.ID, &it.MeetingID, &it.OrderNum, &it.Title, &typ, &ref, &outcome); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan agenda item")
		}
		it.Type = model.AgendaItemType(typ)
		it.ReferenceNumber = ref.String
		it.Outcome = outcome.String
		items = append(items, it)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: scan agenda items iterate")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func rowsChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
