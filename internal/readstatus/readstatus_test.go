package readstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mangalog/internal/entities"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		position int
		total    int
		expected int
	}{
		{"first page of twenty", 0, 20, 5},
		{"midway", 9, 20, 50},
		{"last page", 19, 20, 100},
		{"exactly at threshold", 7, 10, 80},
		{"just under threshold", 6, 10, 70},
		{"rounds down", 2, 7, 42}, // 3/7 = 42.86%
		{"unknown page count", 0, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := entities.HistoryEntry{
				LastReadPosition:    tt.position,
				TotalUnitsInChapter: tt.total,
			}
			assert.Equal(t, tt.expected, ProgressPercent(entry))
		})
	}
}

func TestIsRead(t *testing.T) {
	assert.True(t, IsRead(entities.HistoryEntry{LastReadPosition: 7, TotalUnitsInChapter: 10}))
	assert.False(t, IsRead(entities.HistoryEntry{LastReadPosition: 6, TotalUnitsInChapter: 10}))
	assert.True(t, IsRead(entities.HistoryEntry{LastReadPosition: 0, TotalUnitsInChapter: 0}))
	assert.True(t, IsRead(entities.HistoryEntry{LastReadPosition: 19, TotalUnitsInChapter: 20}))
}

func TestForItem(t *testing.T) {
	entries := []entities.HistoryEntry{
		{ItemID: "m1", LastReadUnitID: "c3", LastReadPosition: 9, TotalUnitsInChapter: 10},
		{ItemID: "m2", LastReadUnitID: "c1", LastReadPosition: 0, TotalUnitsInChapter: 40},
	}

	status := ForItem(entries, "m1")
	assert.Equal(t, map[string]bool{"c3": true}, status)

	status = ForItem(entries, "m2")
	assert.Equal(t, map[string]bool{"c1": false}, status)

	assert.Empty(t, ForItem(entries, "unknown"))
	assert.Empty(t, ForItem(nil, "m1"))
}

func TestChapterProgress(t *testing.T) {
	entries := []entities.HistoryEntry{
		{ItemID: "m1", LastReadUnitID: "c3", LastReadPosition: 4, TotalUnitsInChapter: 20},
	}

	assert.Equal(t, 25, ChapterProgress(entries, "c3"))
	assert.Equal(t, 0, ChapterProgress(entries, "c4"))
}

func TestIsChapterRead(t *testing.T) {
	entries := []entities.HistoryEntry{
		{ItemID: "m1", LastReadUnitID: "c3", LastReadPosition: 8, TotalUnitsInChapter: 10},
	}

	assert.True(t, IsChapterRead(entries, "c3"))
	assert.False(t, IsChapterRead(entries, "c9"))
}
