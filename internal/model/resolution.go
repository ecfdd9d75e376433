package model

import "time"

// ResolutionStatus represents the lifecycle state of a resolution.
type ResolutionStatus string

const (
	ResolutionStatusProposed       ResolutionStatus = "proposed"
	ResolutionStatusPendingMinutes ResolutionStatus = "pending_minutes"
	ResolutionStatusAdopted        ResolutionStatus = "adopted"
	ResolutionStatusRejected       ResolutionStatus = "rejected"
	ResolutionStatusTabled         ResolutionStatus = "tabled"
)

// Resolution is a council resolution keyed by its canonical number.
//
// AdoptedDate is set only through a verified path alongside status=adopted.
// OutcomeVerified is a one-way latch: once true, reconciliation writes must
// not touch the record except through the explicit correction path.
type Resolution struct {
	ID              string           `json:"id"`
	Number          string           `json:"number"`
	Title           string           `json:"title"`
	Status          ResolutionStatus `json:"status"`
	IntroducedDate  *time.Time       `json:"introduced_date,omitempty"`
	AdoptedDate     *time.Time       `json:"adopted_date,omitempty"`
	MeetingID       string           `json:"meeting_id,omitempty"`
	OutcomeVerified bool             `json:"outcome_verified"`
	RawText         string           `json:"raw_text,omitempty"`
}
