package model

// Motion is the kind of motion recorded for one agenda item vote.
type Motion string

const (
	MotionApprove Motion = "approve"
	MotionDeny    Motion = "deny"
	MotionTable   Motion = "table"
	MotionUnknown Motion = "unknown"
)

// VoteResult is the outcome of a motion.
type VoteResult string

const (
	VoteResultPassed VoteResult = "passed"
	VoteResultFailed VoteResult = "failed"
	VoteResultTabled VoteResult = "tabled"
)

// VoteOutcome is a transient record of one motion and its result for one
// agenda item, from either the portal vote page or the AI minutes fallback.
// It is consumed once per reconciliation pass and never persisted.
type VoteOutcome struct {
	ItemTitle string     `json:"item_title"`
	Motion    Motion     `json:"motion"`
	Result    VoteResult `json:"result"`
	YesCount  int        `json:"yes_count"`
	NoCount   int        `json:"no_count"`
}
