package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickyboard/sticky-board/internal/model"
)

func note(id uint64, content string, status model.Status, age time.Duration) *model.Note {
	return &model.Note{
		ID:        id,
		Content:   content,
		Status:    status,
		Username:  "alice",
		CreatedAt: time.Now().Add(-age),
	}
}

func TestScanCounts(t *testing.T) {
	notes := []*model.Note{
		note(1, "buy milk", model.StatusActive, time.Hour),
		note(2, "team meeting tomorrow", model.StatusDone, time.Hour),
		note(3, "finish project task", model.StatusActive, 10*24*time.Hour),
	}

	r := Scan(notes, 7*24*time.Hour)

	assert.Equal(t, 3, r.TotalNotes)
	assert.Equal(t, 1, r.CompletedNotes)
	assert.Equal(t, 2, r.ActiveNotes)
	require.Len(t, r.OldNotes, 1)
	assert.Equal(t, uint64(3), r.OldNotes[0].ID)
	assert.NotEmpty(t, r.ScanTimestamp)
}

func TestScanWordCloudSkipsShortWordsAndRanks(t *testing.T) {
	notes := []*model.Note{
		note(1, "milk milk milk is ok", model.StatusActive, 0),
		note(2, "milk bread", model.StatusActive, 0),
	}

	r := Scan(notes, 7*24*time.Hour)

	require.NotEmpty(t, r.WordCloud)
	assert.Equal(t, WordCount{Word: "milk", Count: 4}, r.WordCloud[0])
	for _, wc := range r.WordCloud {
		assert.GreaterOrEqual(t, len(wc.Word), minWordLen)
	}
}

func TestScanCategories(t *testing.T) {
	notes := []*model.Note{
		note(1, "standup meeting at 9", model.StatusActive, 0),
		note(2, "call with the vendor", model.StatusActive, 0),
		note(3, "buy groceries", model.StatusActive, 0),
		note(4, "work on the project plan", model.StatusActive, 0),
		note(5, "nothing categorizable", model.StatusActive, 0),
	}

	r := Scan(notes, 7*24*time.Hour)

	assert.Equal(t, 2, r.Categories["meetings"])
	assert.Equal(t, 1, r.Categories["shopping"])
	assert.Equal(t, 1, r.Categories["work"])
	assert.NotContains(t, r.Categories, "personal")
	assert.Contains(t, r.Insights, "Most active category: meetings")
}

func TestScanInsightsCompletionRate(t *testing.T) {
	notes := []*model.Note{
		note(1, "one", model.StatusDone, 0),
		note(2, "two", model.StatusActive, 0),
	}

	r := Scan(notes, 7*24*time.Hour)
	assert.Contains(t, r.Insights, "Completion rate: 50.0%")
}

func TestScanEmpty(t *testing.T) {
	r := Scan(nil, 7*24*time.Hour)
	assert.Equal(t, 0, r.TotalNotes)
	assert.Empty(t, r.Insights)
	assert.Empty(t, r.WordCloud)
}

func TestOldNotesFiltersDoneAndFresh(t *testing.T) {
	notes := []*model.Note{
		note(1, "fresh active", model.StatusActive, time.Hour),
		note(2, "stale active", model.StatusActive, 10*24*time.Hour),
		note(3, "stale done", model.StatusDone, 10*24*time.Hour),
	}

	old := OldNotes(notes, 7*24*time.Hour)
	require.Len(t, old, 1)
	assert.Equal(t, uint64(2), old[0].ID)
}

func TestSuggestionsEmptyAndBusy(t *testing.T) {
	assert.Contains(t, Suggestions(nil), "Start by creating your first note!")

	var busy []*model.Note
	for i := uint64(1); i <= 6; i++ {
		busy = append(busy, note(i, "meeting prep", model.StatusActive, 0))
	}
	got := Suggestions(busy)
	assert.Contains(t, got, "You have 6 incomplete tasks. Consider prioritizing them.")
	assert.Contains(t, got, "Consider adding meeting follow-up tasks")
}
