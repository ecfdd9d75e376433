package model

import "time"

// OrdinanceStatus represents the lifecycle state of an ordinance.
type OrdinanceStatus string

const (
	OrdinanceStatusProposed      OrdinanceStatus = "proposed"
	OrdinanceStatusFirstReading  OrdinanceStatus = "first_reading"
	OrdinanceStatusSecondReading OrdinanceStatus = "second_reading"
	OrdinanceStatusAdopted       OrdinanceStatus = "adopted"
	OrdinanceStatusDenied        OrdinanceStatus = "denied"
	OrdinanceStatusRejected      OrdinanceStatus = "rejected"
	OrdinanceStatusTabled        OrdinanceStatus = "tabled"
)

// Terminal reports whether the status is a verified end state. A terminal
// status never regresses back to proposed on re-ingestion.
func (s OrdinanceStatus) Terminal() bool {
	switch s {
	case OrdinanceStatusAdopted, OrdinanceStatusDenied, OrdinanceStatusRejected, OrdinanceStatusTabled:
		return true
	}
	return false
}

// Ordinance is a municipal ordinance keyed by its canonical number
// (e.g. "773" or "2024-773"). MunicodeURL and Summary are populated by an
// external codification sync and are protected once set.
type Ordinance struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	Title          string          `json:"title"`
	Status         OrdinanceStatus `json:"status"`
	IntroducedDate *time.Time      `json:"introduced_date,omitempty"`
	AdoptedDate    *time.Time      `json:"adopted_date,omitempty"`
	MunicodeURL    string          `json:"municode_url,omitempty"`
	Summary        string          `json:"summary,omitempty"`
}

// LinkAction is the lifecycle stage recorded for one ordinance at one meeting.
type LinkAction string

const (
	ActionIntroduced         LinkAction = "introduced"
	ActionFirstReading       LinkAction = "first_reading"
	ActionSecondReading      LinkAction = "second_reading"
	ActionAdopted            LinkAction = "adopted"
	ActionAmended            LinkAction = "amended"
	ActionTabled             LinkAction = "tabled"
	ActionDenied             LinkAction = "denied"
	ActionWithdrawn          LinkAction = "withdrawn"
	ActionDiscussed          LinkAction = "discussed"
	ActionFirstReadingPassed LinkAction = "first_reading_passed"
	ActionFailed             LinkAction = "failed"
	ActionVoted              LinkAction = "voted"
)

// OrdinanceMeetingLink records that an ordinance was on a meeting's agenda,
// with the action taken there. At most one action per (ordinance, meeting);
// upserts are keyed on the composite.
type OrdinanceMeetingLink struct {
	OrdinanceID string     `json:"ordinance_id"`
	MeetingID   string     `json:"meeting_id"`
	Action      LinkAction `json:"action"`
}

// LinkedMeeting pairs a link with its meeting date for chronological
// inference and date rollups.
type LinkedMeeting struct {
	Link        OrdinanceMeetingLink `json:"link"`
	MeetingDate time.Time            `json:"meeting_date"`
}
