package system

import (
	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// StepResult describes how an avatar's directional intent resolved.
type StepResult uint8

const (
	StepMove    StepResult = iota // position updated
	StepBlocked                   // wall, glass, off-map or another avatar
	StepAttack                    // target tile holds a living foe
	StepTake                      // moved onto the orb
	StepFumble                    // attacked a tile with no living foe
)

func (r StepResult) String() string {
	switch r {
	case StepMove:
		return "move"
	case StepBlocked:
		return "blocked"
	case StepAttack:
		return "attack"
	case StepTake:
		return "take"
	case StepFumble:
		return "fumble"
	}
	return "unknown"
}

// OccupantKind is what stands on a tile.
type OccupantKind uint8

const (
	OccupantNone OccupantKind = iota
	OccupantFoe
	OccupantAvatar
	OccupantOrb
)

// Occupant identifies the entity found on a tile. Non-blocking foes (auras)
// can be walked onto but still be attacked deliberately.
type Occupant struct {
	Kind     OccupantKind
	ID       string
	Blocking bool
}

// ResolveStep turns a move or attack intent from `from` in direction d into
// a concrete outcome. Moving into a living blocking foe becomes an attack.
func ResolveStep(gmap *gamemap.GameMap, from component.Position, d component.Dir, attack bool,
	occupant func(component.Position) Occupant) (StepResult, component.Position, Occupant) {
	to := from.Step(d)
	if d == component.DirNone {
		return StepBlocked, from, Occupant{}
	}
	occ := occupant(to)
	if attack {
		if occ.Kind == OccupantFoe {
			return StepAttack, to, occ
		}
		return StepFumble, to, occ
	}
	switch {
	case occ.Kind == OccupantFoe && occ.Blocking:
		return StepAttack, to, occ
	case occ.Kind == OccupantAvatar:
		return StepBlocked, from, occ
	case !gmap.Walkable(to):
		return StepBlocked, from, Occupant{}
	case occ.Kind == OccupantOrb:
		return StepTake, to, occ
	case occ.Kind == OccupantFoe:
		return StepMove, to, occ
	}
	return StepMove, to, Occupant{}
}
