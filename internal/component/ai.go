package component

// FoeKind describes how a foe acts each turn.
type FoeKind uint8

const (
	FoeAura   FoeKind = iota // never moves, hurts anyone standing on its tile
	FoeChaser                // steps toward the nearest avatar, attacks if adjacent
)

func (k FoeKind) String() string {
	switch k {
	case FoeAura:
		return "aura"
	case FoeChaser:
		return "chaser"
	}
	return "unknown"
}

// ParseFoeKind maps a stage-file name to a FoeKind.
func ParseFoeKind(s string) (FoeKind, bool) {
	switch s {
	case "aura":
		return FoeAura, true
	case "chaser":
		return FoeChaser, true
	}
	return 0, false
}

// Fixed combat numbers shared by the behaviors and the stage engine.
const (
	AuraDamage        = 1
	ChaserDamage      = 2
	AvatarDamage      = 1
	ChaserDetectRange = 6
	AuraHP            = 2
	ChaserHP          = 3
)

// DefaultHP returns the starting hit points for a foe of kind k.
func (k FoeKind) DefaultHP() int {
	if k == FoeChaser {
		return ChaserHP
	}
	return AuraHP
}
