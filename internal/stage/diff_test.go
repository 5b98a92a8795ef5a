package stage

import (
	"errors"
	"testing"
)

func TestWindowIndexing(t *testing.T) {
	var w window
	for range 5 {
		w.extend()
	}
	if w.first() != 1 || w.head != 5 {
		t.Fatalf("window = [%d, %d], want [1, 5]", w.first(), w.head)
	}
	for turn := 1; turn <= 5; turn++ {
		d, err := w.at(turn)
		if err != nil {
			t.Fatalf("at(%d): %v", turn, err)
		}
		if d.Turn != turn {
			t.Errorf("at(%d).Turn = %d", turn, d.Turn)
		}
	}

	w.dropBefore(3)
	if w.first() != 3 {
		t.Errorf("first after drop = %d, want 3", w.first())
	}
	d, err := w.at(4)
	if err != nil || d.Turn != 4 {
		t.Errorf("at(4) after drop = %v, %v", d, err)
	}

	for _, turn := range []int{0, 2, 6} {
		_, err := w.at(turn)
		if !errors.Is(err, ErrDiffOutOfWindow) {
			t.Errorf("at(%d) err = %v, want ErrDiffOutOfWindow", turn, err)
		}
		var we *WindowError
		if !errors.As(err, &we) || we.Turn != turn {
			t.Errorf("at(%d) err = %v, want *WindowError for that turn", turn, err)
		}
	}
}

func TestWindowDropEverything(t *testing.T) {
	var w window
	w.extend()
	w.extend()
	w.dropBefore(10)
	if len(w.diffs) != 0 {
		t.Errorf("diffs left = %d, want 0", len(w.diffs))
	}
	if w.first() != w.head+1 {
		t.Errorf("empty window first = %d, head = %d", w.first(), w.head)
	}
	d := w.extend()
	if d.Turn != 3 || w.first() != 3 {
		t.Errorf("extend after drop gave turn %d first %d, want 3 and 3", d.Turn, w.first())
	}
}
