package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/civic-cli/internal/model"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestExtractOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []model.VoteOutcome
		wantErr  bool
	}{
		{
			name: "plain json",
			response: `[{"item_title":"Resolution 2024-15","motion":"approve","result":"passed","yes":5,"no":0}]`,
			want: []model.VoteOutcome{
				{ItemTitle: "Resolution 2024-15", Motion: model.MotionApprove, Result: model.VoteResultPassed, YesCount: 5},
			},
		},
		{
			name: "fenced json",
			response: "```json\n[{\"item_title\":\"Ordinance 2024-03\",\"motion\":\"deny\",\"result\":\"passed\",\"yes\":4,\"no\":1}]\n```",
			want: []model.VoteOutcome{
				{ItemTitle: "Ordinance 2024-03", Motion: model.MotionDeny, Result: model.VoteResultPassed, YesCount: 4, NoCount: 1},
			},
		},
		{
			name: "invalid motion dropped",
			response: `[
				{"item_title":"A","motion":"ratify","result":"passed"},
				{"item_title":"B","motion":"table","result":"passed","yes":3,"no":2}
			]`,
			want: []model.VoteOutcome{
				{ItemTitle: "B", Motion: model.MotionTable, Result: model.VoteResultPassed, YesCount: 3, NoCount: 2},
			},
		},
		{
			name:     "invalid result dropped",
			response: `[{"item_title":"A","motion":"approve","result":"maybe"}]`,
			want:     []model.VoteOutcome{},
		},
		{
			name:     "blank title dropped",
			response: `[{"item_title":"  ","motion":"approve","result":"passed"}]`,
			want:     []model.VoteOutcome{},
		},
		{
			name:     "not json",
			response: "The council approved everything.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewDocumentExtractor(&fakeCompleter{response: tt.response})
			got, err := x.ExtractOutcomes(context.Background(), []byte("minutes"), []model.AgendaItem{{Title: "Resolution 2024-15"}})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOutcomesPromptIncludesAgenda(t *testing.T) {
	fc := &fakeCompleter{response: "[]"}
	x := NewDocumentExtractor(fc)
	_, err := x.ExtractOutcomes(context.Background(), []byte("the minutes body"), []model.AgendaItem{
		{Title: "Resolution 2024-15 street repair"},
		{Title: "Ordinance 2024-03 zoning"},
	})
	require.NoError(t, err)
	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "Resolution 2024-15 street repair")
	assert.Contains(t, fc.prompts[0], "Ordinance 2024-03 zoning")
	assert.Contains(t, fc.prompts[0], "the minutes body")
}

func TestExtractResolutionText(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		x := NewDocumentExtractor(&fakeCompleter{response: `{"found":true,"text":"A RESOLUTION approving the repair of Elm Street."}`})
		found, text, err := x.ExtractResolutionText(context.Background(), []byte("minutes"), "2024-15")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "A RESOLUTION approving the repair of Elm Street.", text)
	})

	t.Run("not found", func(t *testing.T) {
		x := NewDocumentExtractor(&fakeCompleter{response: `{"found":false,"text":""}`})
		found, text, err := x.ExtractResolutionText(context.Background(), []byte("minutes"), "2024-15")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, text)
	})

	t.Run("found but blank text treated as not found", func(t *testing.T) {
		x := NewDocumentExtractor(&fakeCompleter{response: `{"found":true,"text":"   "}`})
		found, _, err := x.ExtractResolutionText(context.Background(), []byte("minutes"), "2024-15")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("garbage response", func(t *testing.T) {
		x := NewDocumentExtractor(&fakeCompleter{response: "sorry, I could not find it"})
		_, _, err := x.ExtractResolutionText(context.Background(), []byte("minutes"), "2024-15")
		require.Error(t, err)
	})
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
