package stage

import (
	"fmt"

	"chronorogue/internal/component"
)

// ActionKind is what an avatar asked to do.
type ActionKind uint8

const (
	ActWait ActionKind = iota
	ActMove
	ActAttack
)

var actionNames = [...]string{"wait", "move", "attack"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// ParseActionKind maps a wire name to an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	for i, n := range actionNames {
		if n == s {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Action is a client intent. Dir is ignored for ActWait.
type Action struct {
	Kind ActionKind
	Dir  component.Dir
}

func Wait() Action { return Action{Kind: ActWait} }
func Move(d component.Dir) Action { return Action{Kind: ActMove, Dir: d} }
func Attack(d component.Dir) Action { return Action{Kind: ActAttack, Dir: d} }

// Outcome is the server-side resolution of an Action.
type Outcome uint8

const (
	OutcomeNone Outcome = iota // no action this turn
	OutcomeWait
	OutcomeMove
	OutcomeAttack
	OutcomeBlocked
	OutcomeTake
	OutcomeFumble
	OutcomeIgnored // the avatar was dead
)

var outcomeNames = [...]string{"none", "wait", "move", "attack", "blocked", "take", "fumble", "ignored"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Resolved is the action the engine actually carried out.
type Resolved struct {
	Outcome Outcome
	Dir     component.Dir
	Target  string // foe ID for attacks
}

// Submission is one avatar's entry in a turn diff.
type Submission struct {
	Action Action
	Senses component.Senses
}
