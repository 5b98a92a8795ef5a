package stage

import "sort"

// Diff holds everything submitted for one absolute turn slot.
type Diff struct {
	Turn        int
	Submissions map[string]Submission
	Joining     *Avatar
	Leaving     []string
}

func newDiff(turn int) *Diff {
	return &Diff{Turn: turn, Submissions: make(map[string]Submission)}
}

// submitters lists the avatars with a submission, sorted.
func (d *Diff) submitters() []string {
	ids := make([]string, 0, len(d.Submissions))
	for id := range d.Submissions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// window is the sliding diff history ending at head. Slots are addressed
// relative to head so compaction never renumbers turns.
type window struct {
	head  int
	diffs []*Diff
}

// first is the oldest retained turn. An empty window starts after head.
func (w *window) first() int { return w.head - len(w.diffs) + 1 }

func (w *window) index(turn int) (int, error) {
	i := len(w.diffs) - 1 - (w.head - turn)
	if i < 0 || i >= len(w.diffs) {
		return 0, &WindowError{Turn: turn, First: w.first(), Head: w.head}
	}
	return i, nil
}

func (w *window) at(turn int) (*Diff, error) {
	i, err := w.index(turn)
	if err != nil {
		return nil, err
	}
	return w.diffs[i], nil
}

// extend advances head by one and returns the new, empty slot.
func (w *window) extend() *Diff {
	w.head++
	d := newDiff(w.head)
	w.diffs = append(w.diffs, d)
	return d
}

// dropBefore discards every slot older than turn.
func (w *window) dropBefore(turn int) {
	n := turn - w.first()
	if n <= 0 {
		return
	}
	if n > len(w.diffs) {
		n = len(w.diffs)
	}
	w.diffs = append([]*Diff(nil), w.diffs[n:]...)
}

func (w *window) reset() {
	w.head = 0
	w.diffs = nil
}
