package system

import "chronorogue/internal/component"

// DecisionKind tags what a foe wants to do this turn.
type DecisionKind uint8

const (
	DecideNoOp DecisionKind = iota
	DecideMoveTo
	DecideAttack
)

// Decision is a deferred foe mutation. Nothing is applied until every foe
// for the turn has been evaluated against the same snapshot.
type Decision struct {
	Kind   DecisionKind
	FoeID  string
	Pos    component.Position // DecideMoveTo destination
	Target string             // DecideAttack avatar ID
	Damage int
}

// FoeView is the part of a foe the behaviors read.
type FoeView struct {
	ID   string
	Kind component.FoeKind
	Pos  component.Position
	HP   int
}

// AvatarView is the part of an avatar the behaviors read.
type AvatarView struct {
	ID  string
	Pos component.Position
	HP  int
}

// DecideFoe returns the deferred decisions for one foe. Dead foes and foes
// with nobody to act on return nil.
func DecideFoe(f FoeView, avatars []AvatarView) []Decision {
	if f.HP <= 0 {
		return nil
	}
	switch f.Kind {
	case component.FoeAura:
		return auraDecide(f, avatars)
	case component.FoeChaser:
		return chaseDecide(f, avatars)
	}
	return nil
}

// auraDecide hits every living avatar standing exactly on the foe's tile.
func auraDecide(f FoeView, avatars []AvatarView) []Decision {
	var out []Decision
	for _, a := range avatars {
		if a.HP > 0 && a.Pos == f.Pos {
			out = append(out, Decision{Kind: DecideAttack, FoeID: f.ID, Target: a.ID, Damage: component.AuraDamage})
		}
	}
	return out
}

func chaseDecide(f FoeView, avatars []AvatarView) []Decision {
	target, ok := nearestAvatar(f.Pos, avatars, component.ChaserDetectRange)
	if !ok {
		return nil
	}
	if component.Chebyshev(f.Pos, target.Pos) <= 1 {
		return []Decision{{Kind: DecideAttack, FoeID: f.ID, Target: target.ID, Damage: component.ChaserDamage}}
	}
	return []Decision{{Kind: DecideMoveTo, FoeID: f.ID, Pos: f.Pos.Toward(target.Pos)}}
}

// nearestAvatar returns the closest living avatar within detectRange.
// Ties go to the lowest ID so the choice never depends on slice order.
func nearestAvatar(from component.Position, avatars []AvatarView, detectRange int) (AvatarView, bool) {
	var best AvatarView
	found := false
	bestDist := detectRange + 1
	for _, a := range avatars {
		if a.HP <= 0 {
			continue
		}
		d := component.Chebyshev(from, a.Pos)
		if d > detectRange {
			continue
		}
		if d < bestDist || (d == bestDist && a.ID < best.ID) {
			best, bestDist, found = a, d, true
		}
	}
	return best, found
}
