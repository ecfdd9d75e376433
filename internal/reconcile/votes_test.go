package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

func addUnverifiedResolution(t *testing.T, st store.Store, number, meetingID string) *model.Resolution {
	t.Helper()
	introduced := date(2024, 2, 6)
	r, err := st.UpsertResolution(context.Background(), model.Resolution{
		Number:         number,
		Title:          "Water contract",
		Status:         model.ResolutionStatusPendingMinutes,
		IntroducedDate: &introduced,
		MeetingID:      meetingID,
	})
	require.NoError(t, err)
	return r
}

func addLinkedProposedOrdinance(t *testing.T, st store.Store, number, meetingID string) *model.Ordinance {
	t.Helper()
	ctx := context.Background()
	o, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: number, Title: "Zoning amendment"})
	require.NoError(t, err)
	require.NoError(t, st.UpsertLink(ctx, model.OrdinanceMeetingLink{
		OrdinanceID: o.ID, MeetingID: meetingID, Action: model.ActionDiscussed,
	}))
	return o
}

func TestReconcileVotes_MeetingNotFound(t *testing.T) {
	st := newTestStore(t)

	e := newTestEngine(st, nil, nil, nil)
	_, err := e.ReconcileVoteOutcomes(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meeting not found")
}

func TestReconcileVotes_UpcomingMeetingSkipped(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 7, 2))
	addUnverifiedResolution(t, st, "25-012", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Resolution 25-012", Motion: model.MotionApprove, Result: model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)
	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, result.ResolutionsUpdated)
	assert.Zero(t, votes.calls, "no fetch for a meeting that has not happened")
}

func TestReconcileVotes_NothingPendingSkipsFetch(t *testing.T) {
	st := newTestStore(t)

	addMeeting(t, st, "m1", date(2024, 2, 6))

	votes := &fakeVoteSource{}
	e := newTestEngine(st, votes, nil, nil)
	result, err := e.ReconcileVoteOutcomes(context.Background(), "m1")
	require.NoError(t, err)
	assert.Zero(t, result.ResolutionsUpdated)
	assert.Zero(t, result.OrdinancesUpdated)
	assert.Zero(t, votes.calls)
}

func TestReconcileVotes_PortalOutcomeVerifiesResolution(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	addUnverifiedResolution(t, st, "25-012", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Resolution 25-012 approving the water contract",
		Motion:    model.MotionApprove,
		Result:    model.VoteResultPassed,
		YesCount:  5,
	}}}
	minutes := &fakeMinutesSource{}
	e := newTestEngine(st, votes, minutes, &fakeExtractor{})

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ResolutionsUpdated)
	assert.Zero(t, minutes.calls, "portal data present, fallback not consulted")

	r, err := st.GetResolutionByNumber(ctx, "25-012")
	require.NoError(t, err)
	assert.Equal(t, model.ResolutionStatusAdopted, r.Status)
	assert.True(t, r.OutcomeVerified)
	require.NotNil(t, r.AdoptedDate)
	assert.Equal(t, date(2024, 2, 6), *r.AdoptedDate)
}

func TestReconcileVotes_FallbackToMinutesExtraction(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	addUnverifiedResolution(t, st, "25-012", "m1")

	votes := &fakeVoteSource{} // portal has no structured data
	minutes := &fakeMinutesSource{doc: []byte("minutes text")}
	extractor := &fakeExtractor{outcomes: []model.VoteOutcome{{
		ItemTitle: "Resolution 25-012", Motion: model.MotionApprove, Result: model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, minutes, extractor)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ResolutionsUpdated)
	assert.Equal(t, 1, votes.calls)
	assert.Equal(t, 1, minutes.calls)
	assert.Equal(t, 1, extractor.calls)
}

func TestResolutionStatusForVote(t *testing.T) {
	tests := []struct {
		name    string
		outcome model.VoteOutcome
		want    model.ResolutionStatus
	}{
		{"approve passed", model.VoteOutcome{Motion: model.MotionApprove, Result: model.VoteResultPassed}, model.ResolutionStatusAdopted},
		{"unknown motion passed", model.VoteOutcome{Motion: model.MotionUnknown, Result: model.VoteResultPassed}, model.ResolutionStatusAdopted},
		{"table passed", model.VoteOutcome{Motion: model.MotionTable, Result: model.VoteResultPassed}, model.ResolutionStatusTabled},
		{"deny passed", model.VoteOutcome{Motion: model.MotionDeny, Result: model.VoteResultPassed}, model.ResolutionStatusRejected},
		{"approve failed", model.VoteOutcome{Motion: model.MotionApprove, Result: model.VoteResultFailed}, model.ResolutionStatusRejected},
		{"tabled result", model.VoteOutcome{Motion: model.MotionApprove, Result: model.VoteResultTabled}, model.ResolutionStatusTabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolutionStatusForVote(tt.outcome))
		})
	}
}

func TestReconcileVotes_OrdinanceDenied(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	ord := addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Ordinance 773 zoning amendment",
		Motion:    model.MotionDeny,
		Result:    model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdinancesUpdated)

	stored, err := st.GetOrdinanceByNumber(ctx, "773")
	require.NoError(t, err)
	assert.Equal(t, model.OrdinanceStatusDenied, stored.Status)
	links, err := st.ListLinksForOrdinance(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionDenied, links[0].Link.Action)
}

func TestReconcileVotes_OrdinanceSecondReadingAdopts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 3, 5))
	ord := addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Second reading of Ordinance 773",
		Motion:    model.MotionApprove,
		Result:    model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdinancesUpdated)

	stored, err := st.GetOrdinanceByNumber(ctx, "773")
	require.NoError(t, err)
	assert.Equal(t, model.OrdinanceStatusAdopted, stored.Status)
	require.NotNil(t, stored.AdoptedDate)
	assert.Equal(t, date(2024, 3, 5), *stored.AdoptedDate)
	links, err := st.ListLinksForOrdinance(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionAdopted, links[0].Link.Action)
}

func TestReconcileVotes_OrdinanceFirstReadingKeepsStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	ord := addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Ordinance 773 zoning amendment",
		Motion:    model.MotionApprove,
		Result:    model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdinancesUpdated)

	stored, err := st.GetOrdinanceByNumber(ctx, "773")
	require.NoError(t, err)
	assert.Equal(t, model.OrdinanceStatusProposed, stored.Status)
	links, err := st.ListLinksForOrdinance(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionFirstReadingPassed, links[0].Link.Action)
}

func TestReconcileVotes_OrdinanceMotionFailed(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	ord := addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Ordinance 773 zoning amendment",
		Motion:    model.MotionApprove,
		Result:    model.VoteResultFailed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	_, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)

	// A failed motion marks the link but leaves the record open for a retry
	// at a later meeting.
	stored, err := st.GetOrdinanceByNumber(ctx, "773")
	require.NoError(t, err)
	assert.Equal(t, model.OrdinanceStatusProposed, stored.Status)
	links, err := st.ListLinksForOrdinance(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionFailed, links[0].Link.Action)
}

func TestReconcileVotes_OrdinanceTabled(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	ord := addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Ordinance 773 zoning amendment",
		Motion:    model.MotionApprove,
		Result:    model.VoteResultTabled,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrdinancesUpdated)

	stored, err := st.GetOrdinanceByNumber(ctx, "773")
	require.NoError(t, err)
	assert.Equal(t, model.OrdinanceStatusTabled, stored.Status)
	links, err := st.ListLinksForOrdinance(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActionTabled, links[0].Link.Action)
}

func TestReconcileVotes_VerifiedResolutionNotTouched(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	res := addUnverifiedResolution(t, st, "25-012", "m1")
	adopted := date(2024, 1, 15)
	ok, err := st.UpdateResolutionOutcomeIfUnverified(ctx, res.ID, model.ResolutionStatusAdopted, &adopted, true)
	require.NoError(t, err)
	require.True(t, ok)
	// An ordinance keeps the pass from short-circuiting on "nothing pending".
	addLinkedProposedOrdinance(t, st, "773", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Resolution 25-012", Motion: model.MotionDeny, Result: model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, result.ResolutionsUpdated)

	r, err := st.GetResolutionByNumber(ctx, "25-012")
	require.NoError(t, err)
	assert.Equal(t, model.ResolutionStatusAdopted, r.Status)
}

func TestReconcileVotes_UnmatchedOutcomeIgnored(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	addMeeting(t, st, "m1", date(2024, 2, 6))
	addUnverifiedResolution(t, st, "25-012", "m1")

	votes := &fakeVoteSource{outcomes: []model.VoteOutcome{{
		ItemTitle: "Approval of minutes", Motion: model.MotionApprove, Result: model.VoteResultPassed,
	}}}
	e := newTestEngine(st, votes, nil, nil)

	result, err := e.ReconcileVoteOutcomes(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, result.ResolutionsUpdated)
}
