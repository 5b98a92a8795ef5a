package event

import "testing"

func TestMergeLogsDedupAndOrder(t *testing.T) {
	existing := []LogEntry{{Turn: 1, Text: "a"}, {Turn: 3, Text: "c"}}
	incoming := []LogEntry{{Turn: 2, Text: "b"}, {Turn: 3, Text: "c"}, {Turn: 3, Text: "d"}}

	got := MergeLogs(existing, incoming, 0)
	want := []LogEntry{{1, "a"}, {2, "b"}, {3, "c"}, {3, "d"}}
	if len(got) != len(want) {
		t.Fatalf("MergeLogs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMergeLogsLimit(t *testing.T) {
	var incoming []LogEntry
	for i := range 60 {
		incoming = append(incoming, LogEntry{Turn: i, Text: "x"})
	}
	got := MergeLogs(nil, incoming, MaxLogEntries)
	if len(got) != MaxLogEntries {
		t.Fatalf("len = %d, want %d", len(got), MaxLogEntries)
	}
	if got[0].Turn != 10 {
		t.Errorf("oldest kept turn = %d, want 10", got[0].Turn)
	}
}
