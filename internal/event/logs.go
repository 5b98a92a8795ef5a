package event

import "sort"

// MaxLogEntries bounds a reconciled log.
const MaxLogEntries = 50

// LogEntry is one line of an avatar's displayed timeline.
type LogEntry struct {
	Turn int    `json:"turn"`
	Text string `json:"text"`
}

// Entries renders delivered events as log lines.
func Entries(events []GEvent) []LogEntry {
	var out []LogEntry
	for _, g := range events {
		out = append(out, LogEntry{Turn: g.Event.Turn, Text: g.Event.Text()})
	}
	return out
}

// MergeLogs folds incoming entries into an existing timeline. Entries are
// keyed by turn and de-duplicated by content; the result is ordered by turn
// and keeps at most limit of the newest entries.
func MergeLogs(existing, incoming []LogEntry, limit int) []LogEntry {
	seen := make(map[LogEntry]bool, len(existing)+len(incoming))
	merged := make([]LogEntry, 0, len(existing)+len(incoming))
	for _, batch := range [][]LogEntry{existing, incoming} {
		for _, e := range batch {
			if seen[e] {
				continue
			}
			seen[e] = true
			merged = append(merged, e)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Turn < merged[j].Turn })
	if limit > 0 && len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	return merged
}
