// Package readstatus derives per-chapter read state from history entries.
// It is a recomputed-on-read view over the history store and is never
// persisted itself.
package readstatus

import "mangalog/internal/entities"

// ReadThresholdPercent is the progress at which a chapter counts as read.
// The last page or two of a chapter often never registers a page turn, so
// the threshold sits below 100.
const ReadThresholdPercent = 80

// ProgressPercent returns how far through the chapter the entry's position
// is, floored to an integer percentage. A chapter with an unknown page
// count reports 100 so it is never perpetually flagged unread.
func ProgressPercent(entry entities.HistoryEntry) int {
	if entry.TotalUnitsInChapter <= 0 {
		return 100
	}
	return (entry.LastReadPosition + 1) * 100 / entry.TotalUnitsInChapter
}

// IsRead reports whether the entry's chapter counts as read.
func IsRead(entry entities.HistoryEntry) bool {
	return ProgressPercent(entry) >= ReadThresholdPercent
}

// ForItem maps each unit id recorded for itemID to its read state.
// With the one-entry-per-item history invariant the map holds at most one
// key, but the shape stays general for callers rendering chapter lists.
func ForItem(entries []entities.HistoryEntry, itemID string) map[string]bool {
	status := make(map[string]bool)
	for _, entry := range entries {
		if entry.ItemID == itemID {
			status[entry.LastReadUnitID] = IsRead(entry)
		}
	}
	return status
}

// ChapterProgress returns the progress percentage recorded for unitID, or
// zero when no history entry references it.
func ChapterProgress(entries []entities.HistoryEntry, unitID string) int {
	for _, entry := range entries {
		if entry.LastReadUnitID == unitID {
			return ProgressPercent(entry)
		}
	}
	return 0
}

// IsChapterRead reports whether any history entry marks unitID as read.
func IsChapterRead(entries []entities.HistoryEntry, unitID string) bool {
	for _, entry := range entries {
		if entry.LastReadUnitID == unitID {
			return IsRead(entry)
		}
	}
	return false
}
