package stage

import (
	"testing"

	"chronorogue/internal/component"
)

func layoutTemplate(t *testing.T, rows ...string) *Template {
	t.Helper()
	tmpl, err := FromLayout("test", "Test Stage", rows)
	if err != nil {
		t.Fatalf("FromLayout: %v", err)
	}
	return tmpl
}

func pos(x, y int) component.Position { return component.Position{X: x, Y: y} }

func mustJoin(t *testing.T, e *Engine, id string) {
	t.Helper()
	if err := e.Join(NewAvatar(id, "player-"+id, id)); err != nil {
		t.Fatalf("Join(%s): %v", id, err)
	}
}

func mustAct(t *testing.T, e *Engine, id string, a Action, s component.Senses) *TurnResult {
	t.Helper()
	res, err := e.Act(id, a, s)
	if err != nil {
		t.Fatalf("Act(%s): %v", id, err)
	}
	return res
}

func findNotice(notices []LimboNotice, id string) (LimboNotice, bool) {
	for _, n := range notices {
		if n.AvatarID == id {
			return n, true
		}
	}
	return LimboNotice{}, false
}
