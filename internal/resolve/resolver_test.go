package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/civic-cli/internal/model"
	"github.com/sells-group/civic-cli/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newTestResolver(st store.Store) *Resolver {
	r := NewResolver(st)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestResolveOrdinance_Exact(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: "2024-773"})
	require.NoError(t, err)

	r := newTestResolver(st)
	got, err := r.ResolveOrdinance(ctx, "Ordinance No. 2024-773")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-773", got.Ordinance.Number)
	assert.Equal(t, model.MatchExact, got.Provenance)
}

func TestResolveOrdinance_YearPrefixed(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Stored under a year prefix two years back; the reference is bare.
	_, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: "2022-773"})
	require.NoError(t, err)

	r := newTestResolver(st)
	got, err := r.ResolveOrdinance(ctx, "Ordinance 773")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2022-773", got.Ordinance.Number)
	assert.Equal(t, model.MatchYearPrefixed, got.Provenance)
}

func TestResolveOrdinance_YearPrefixedPrefersRecent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: "2020-773"})
	require.NoError(t, err)
	_, err = st.UpsertOrdinance(ctx, model.Ordinance{Number: "2023-773"})
	require.NoError(t, err)

	r := newTestResolver(st)
	got, err := r.ResolveOrdinance(ctx, "773")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2023-773", got.Ordinance.Number)
}

func TestResolveOrdinance_YearLookbackBounded(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Seven years back is outside the lookback window; only the substring
	// fallback can reach it.
	_, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: "2017-773"})
	require.NoError(t, err)

	r := newTestResolver(st)
	got, err := r.ResolveOrdinance(ctx, "773")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.MatchSubstring, got.Provenance)
}

func TestResolveOrdinance_SubstringIsLowConfidence(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertOrdinance(ctx, model.Ordinance{Number: "1773"})
	require.NoError(t, err)

	r := newTestResolver(st)
	got, err := r.ResolveOrdinance(ctx, "Ordinance 773")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1773", got.Ordinance.Number)
	assert.Equal(t, model.MatchSubstring, got.Provenance)
}

func TestResolveOrdinance_NoMatch(t *testing.T) {
	st := newTestStore(t)
	r := newTestResolver(st)

	got, err := r.ResolveOrdinance(context.Background(), "Ordinance 999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveOrdinance_NoToken(t *testing.T) {
	st := newTestStore(t)
	r := newTestResolver(st)

	got, err := r.ResolveOrdinance(context.Background(), "miscellaneous business")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarkProcessed(t *testing.T) {
	r := newTestResolver(newTestStore(t))

	assert.True(t, r.MarkProcessed("m1", "773"))
	assert.False(t, r.MarkProcessed("m1", "773"))
	// Different meeting or number is a distinct key.
	assert.True(t, r.MarkProcessed("m2", "773"))
	assert.True(t, r.MarkProcessed("m1", "774"))
}
