package stage

import (
	"math"
	"sort"
)

// LimboHorizon is how many turns a tracker may trail head before it is
// dropped as too far behind.
const LimboHorizon = 100

// Tracker is an avatar's subjective turn pointer on a stage.
type Tracker struct {
	Turn  int
	Limbo bool
}

// LimboStatus classifies an avatar during a sweep.
type LimboStatus uint8

const (
	LimboMaybeDead LimboStatus = iota
	LimboDead
	LimboAverted
	LimboTooFarBehind
)

func (s LimboStatus) String() string {
	switch s {
	case LimboMaybeDead:
		return "maybe_dead"
	case LimboDead:
		return "dead"
	case LimboAverted:
		return "averted"
	case LimboTooFarBehind:
		return "too_far_behind"
	}
	return "unknown"
}

// Dropped reports whether the status removes the avatar from the stage.
func (s LimboStatus) Dropped() bool { return s == LimboDead || s == LimboTooFarBehind }

// LimboNotice tells the caller about a limbo transition. Avatar is the last
// known state at the tracker's turn.
type LimboNotice struct {
	AvatarID string
	Status   LimboStatus
	Turn     int
	Avatar   *Avatar
}

type limboRow struct {
	id    string
	turn  int
	dead  bool
	limbo bool
}

type verdict struct {
	id     string
	status LimboStatus
}

// classify walks trackers from most behind to most ahead. A dead avatar is
// only confirmed dead when no living avatar is strictly behind it.
func classify(rows []limboRow) []verdict {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].turn != rows[j].turn {
			return rows[i].turn < rows[j].turn
		}
		return rows[i].id < rows[j].id
	})
	var out []verdict
	minLiving := math.MaxInt
	for _, r := range rows {
		switch {
		case r.dead && minLiving < r.turn:
			if !r.limbo {
				out = append(out, verdict{r.id, LimboMaybeDead})
			}
		case r.dead:
			out = append(out, verdict{r.id, LimboDead})
		default:
			if r.limbo {
				out = append(out, verdict{r.id, LimboAverted})
			}
			minLiving = min(minLiving, r.turn)
		}
	}
	return out
}
