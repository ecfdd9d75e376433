package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newTestEngine(st store.Store, votes VoteSource, minutes MinutesSource, extractor Extractor) *Engine {
	e := NewEngine(st, votes, minutes, extractor)
	e.now = func() time.Time { return testNow }
	return e
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func addMeeting(t *testing.T, st store.Store, id string, d time.Time) {
	t.Helper()
	require.NoError(t, st.UpsertMeeting(context.Background(), model.Meeting{
		ID: id, Date: d, Title: "Council Meeting",
	}))
}

func addItem(t *testing.T, st store.Store, item model.AgendaItem) {
	t.Helper()
	require.NoError(t, st.UpsertAgendaItems(context.Background(), []model.AgendaItem{item}))
}

// fakeVoteSource returns canned vote outcomes and records calls.
type fakeVoteSource struct {
	outcomes []model.VoteOutcome
	err      error
	calls    int
}

func (f *fakeVoteSource) FetchVoteOutcomes(_ context.Context, _ string) ([]model.VoteOutcome, error) {
	f.calls++
	return f.outcomes, f.err
}

// fakeMinutesSource returns a canned minutes document.
type fakeMinutesSource struct {
	doc   []byte
	err   error
	calls int
}

func (f *fakeMinutesSource) FetchMinutes(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.doc, f.err
}

// fakeExtractor returns canned AI extraction results.
type fakeExtractor struct {
	outcomes []model.VoteOutcome
	text     string
	found    bool
	err      error
	calls    int
}

func (f *fakeExtractor) ExtractOutcomes(_ context.Context, _ []byte, _ []model.AgendaItem) ([]model.VoteOutcome, error) {
	f.calls++
	return f.outcomes, f.err
}

func (f *fakeExtractor) ExtractResolutionText(_ context.Context, _ []byte, _ string) (bool, string, error) {
	return f.found, f.text, f.err
}
