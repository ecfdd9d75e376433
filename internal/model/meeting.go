package model

import "time"

// MeetingStatus is derived from the meeting date relative to now.
type MeetingStatus string

const (
	MeetingStatusUpcoming MeetingStatus = "upcoming"
	MeetingStatusPast     MeetingStatus = "past"
)

// Meeting is one council meeting. Created by agenda ingestion; the
// reconciliation engine consumes it read-only.
type Meeting struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
}

// Status derives upcoming/past from the meeting date.
func (m Meeting) Status(now time.Time) MeetingStatus {
	if m.Date.After(now) {
		return MeetingStatusUpcoming
	}
	return MeetingStatusPast
}

// AgendaItemType classifies one agenda line item.
type AgendaItemType string

const (
	AgendaItemOrdinance     AgendaItemType = "ordinance"
	AgendaItemResolution    AgendaItemType = "resolution"
	AgendaItemPublicHearing AgendaItemType = "public_hearing"
	AgendaItemNewBusiness   AgendaItemType = "new_business"
	AgendaItemReport        AgendaItemType = "report"
	AgendaItemOther         AgendaItemType = "other"
)

// AgendaItem is one line entry on a meeting's agenda. ReferenceNumber and
// Outcome are free text as scraped; they are parsed into typed tokens at the
// reconciliation boundary, never consumed raw downstream.
type AgendaItem struct {
	ID              string         `json:"id"`
	MeetingID       string         `json:"meeting_id"`
	OrderNum        int            `json:"order_num"`
	Title           string         `json:"title"`
	Type            AgendaItemType `json:"type"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	Outcome         string         `json:"outcome,omitempty"`
}
