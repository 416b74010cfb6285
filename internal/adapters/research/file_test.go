package research

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEstimates(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estimates.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetchEstimates_Basic(t *testing.T) {
	path := writeEstimates(t, `[
		{"ticker": "KXA", "prob_yes": 0.70, "source_count": 3, "updated_at": "2026-08-30T12:00:00Z"},
		{"ticker": "KXB", "prob_yes": 0.25, "source_count": 2, "updated_at": "2026-08-30T11:30:00Z"}
	]`)

	ests, err := NewFileSource(path).FetchEstimates(context.Background())
	require.NoError(t, err)
	assert.Len(t, ests, 2)
	assert.InDelta(t, 0.70, ests["KXA"].ProbYes, 0.0001)
	assert.Equal(t, 3, ests["KXA"].SourceCount)
	assert.False(t, ests["KXA"].UpdatedAt.IsZero())
}

func TestFetchEstimates_CarriesNote(t *testing.T) {
	path := writeEstimates(t, `[
		{"ticker": "KXA", "prob_yes": 0.70, "source_count": 3, "note": "polls moved 5pts after debate"}
	]`)

	ests, err := NewFileSource(path).FetchEstimates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "polls moved 5pts after debate", ests["KXA"].Note)
}

func TestFetchEstimates_DuplicateLastWins(t *testing.T) {
	path := writeEstimates(t, `[
		{"ticker": "KXA", "prob_yes": 0.60, "source_count": 2},
		{"ticker": "KXA", "prob_yes": 0.70, "source_count": 3}
	]`)

	ests, err := NewFileSource(path).FetchEstimates(context.Background())
	require.NoError(t, err)
	assert.Len(t, ests, 1)
	assert.InDelta(t, 0.70, ests["KXA"].ProbYes, 0.0001)
}

func TestFetchEstimates_MissingFileIsEmpty(t *testing.T) {
	ests, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).FetchEstimates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ests)
}

func TestFetchEstimates_MalformedJSON(t *testing.T) {
	path := writeEstimates(t, `{not json`)
	_, err := NewFileSource(path).FetchEstimates(context.Background())
	assert.Error(t, err)
}

func TestFetchEstimates_SkipsEmptyTicker(t *testing.T) {
	path := writeEstimates(t, `[{"ticker": "", "prob_yes": 0.5, "source_count": 2}]`)
	ests, err := NewFileSource(path).FetchEstimates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ests)
}
