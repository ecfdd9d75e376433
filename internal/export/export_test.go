package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

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

func TestWriteRegister(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	introduced := time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)
	adopted := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := st.UpsertOrdinance(ctx, model.Ordinance{
		ID:             "ord-1",
		Number:         "2024-03",
		Title:          "Zoning amendment",
		Status:         model.OrdinanceStatusAdopted,
		IntroducedDate: &introduced,
		AdoptedDate:    &adopted,
	})
	require.NoError(t, err)

	created, err := st.UpsertResolution(ctx, model.Resolution{
		ID:             "res-1",
		Number:         "2024-15",
		Title:          "Street repair",
		Status:         model.ResolutionStatusAdopted,
		IntroducedDate: &introduced,
		AdoptedDate:    &adopted,
	})
	require.NoError(t, err)

	ok, err := st.UpdateResolutionOutcomeIfUnverified(ctx, created.ID, model.ResolutionStatusAdopted, &adopted, true)
	require.NoError(t, err)
	require.True(t, ok)

	path := filepath.Join(t.TempDir(), "register.xlsx")
	res, err := WriteRegister(ctx, st, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Ordinances)
	assert.Equal(t, 1, res.Resolutions)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	ordSheet, ok := f.Sheet["Ordinances"]
	require.True(t, ok)
	require.Len(t, ordSheet.Rows, 2)
	assert.Equal(t, "Number", ordSheet.Rows[0].Cells[0].String())
	assert.Equal(t, "2024-03", ordSheet.Rows[1].Cells[0].String())
	assert.Equal(t, "adopted", ordSheet.Rows[1].Cells[2].String())
	assert.Equal(t, "2024-02-06", ordSheet.Rows[1].Cells[3].String())
	assert.Equal(t, "2024-03-05", ordSheet.Rows[1].Cells[4].String())

	resSheet, ok := f.Sheet["Resolutions"]
	require.True(t, ok)
	require.Len(t, resSheet.Rows, 2)
	assert.Equal(t, "2024-15", resSheet.Rows[1].Cells[0].String())
	assert.Equal(t, "yes", resSheet.Rows[1].Cells[5].String())
}

func TestWriteRegisterEmpty(t *testing.T) {
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "register.xlsx")

	res, err := WriteRegister(context.Background(), st, path)
	require.NoError(t, err)
	assert.Zero(t, res.Ordinances)
	assert.Zero(t, res.Resolutions)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheet["Ordinances"].Rows, 1)
	require.Len(t, f.Sheet["Resolutions"].Rows, 1)
}
