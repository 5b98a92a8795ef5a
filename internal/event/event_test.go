package event

import "testing"

func TestLedgerResetReplacesTurn(t *testing.T) {
	l := NewLedger()
	l.Append(Event{Kind: KindAttack, Turn: 3})
	l.Append(Event{Kind: KindKill, Turn: 3})
	l.Append(Event{Kind: KindFumble, Turn: 4})

	l.Reset(3)
	l.Append(Event{Kind: KindBump, Turn: 3})

	got := l.At(3)
	if len(got) != 1 || got[0].Kind != KindBump {
		t.Errorf("turn 3 after reset = %v, want single bump", got)
	}
	if len(l.At(4)) != 1 {
		t.Errorf("turn 4 should be untouched, got %v", l.At(4))
	}
}

func TestLedgerCompact(t *testing.T) {
	l := NewLedger()
	for turn := 1; turn <= 5; turn++ {
		l.Append(Event{Turn: turn})
	}
	l.Compact(3)
	got := l.Turns()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Turns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Turns()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	l.Clear()
	if len(l.Turns()) != 0 {
		t.Errorf("Clear left turns %v", l.Turns())
	}
}

func TestConcerns(t *testing.T) {
	e := Event{Actor: FoeRef("chaser-1", "chaser"), Target: AvatarRef("a1", "amy")}
	if !e.Concerns("a1") {
		t.Error("target avatar should be concerned")
	}
	if e.Concerns("chaser-1") {
		t.Error("foe ids never count as concerned avatars")
	}
	if e.Concerns("a2") {
		t.Error("unrelated avatar should not be concerned")
	}
}
