package game

import (
	"chronorogue/internal/component"

	"github.com/gdamore/tcell/v2"
)

// Command is a player request decoded from one key press.
type Command uint8

const (
	CmdNone Command = iota
	CmdMove
	CmdAttack // waits for a direction
	CmdWait
	CmdToggleSelf
	CmdSightUp
	CmdSightDown
	CmdToggleTouch
	CmdHearingUp
	CmdHearingDown
	CmdRejoin
	CmdQuit
)

// Input is a decoded key. Dir is set for CmdMove.
type Input struct {
	Cmd Command
	Dir component.Dir
}

var runeDirs = map[rune]component.Dir{
	'k': component.DirN, '8': component.DirN,
	'j': component.DirS, '2': component.DirS,
	'l': component.DirE, '6': component.DirE,
	'h': component.DirW, '4': component.DirW,
	'y': component.DirNW, '7': component.DirNW,
	'u': component.DirNE, '9': component.DirNE,
	'b': component.DirSW, '1': component.DirSW,
	'n': component.DirSE, '3': component.DirSE,
}

// keyToInput maps a tcell key event to a client command.
func keyToInput(ev *tcell.EventKey) Input {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return Input{Cmd: CmdMove, Dir: component.DirN}
	case tcell.KeyDown:
		return Input{Cmd: CmdMove, Dir: component.DirS}
	case tcell.KeyRight:
		return Input{Cmd: CmdMove, Dir: component.DirE}
	case tcell.KeyLeft:
		return Input{Cmd: CmdMove, Dir: component.DirW}
	case tcell.KeyEscape:
		return Input{Cmd: CmdQuit}
	case tcell.KeyRune:
	default:
		return Input{}
	}

	r := ev.Rune()
	if d, ok := runeDirs[r]; ok {
		return Input{Cmd: CmdMove, Dir: d}
	}
	switch r {
	case '.', '5':
		return Input{Cmd: CmdWait}
	case 'a', 'A':
		return Input{Cmd: CmdAttack}
	case 'f', 'F':
		return Input{Cmd: CmdToggleSelf}
	case 's':
		return Input{Cmd: CmdSightUp}
	case 'S':
		return Input{Cmd: CmdSightDown}
	case 't', 'T':
		return Input{Cmd: CmdToggleTouch}
	case 'e':
		return Input{Cmd: CmdHearingUp}
	case 'E':
		return Input{Cmd: CmdHearingDown}
	case 'r', 'R':
		return Input{Cmd: CmdRejoin}
	case 'q', 'Q':
		return Input{Cmd: CmdQuit}
	}
	return Input{}
}

// adjustSenses applies a sense toggle to the request for the next action.
// It reports false for commands that are not sense toggles.
func adjustSenses(s component.Senses, c Command) (component.Senses, bool) {
	switch c {
	case CmdToggleSelf:
		s.Self = !s.Self
	case CmdSightUp:
		s.Sight = min(s.Sight+1, component.MaxSightRadius)
	case CmdSightDown:
		s.Sight = max(s.Sight-1, 0)
	case CmdToggleTouch:
		s.Touch = !s.Touch
	case CmdHearingUp:
		s.Hearing = min(s.Hearing+1, component.MaxHearingStrength)
	case CmdHearingDown:
		s.Hearing = max(s.Hearing-1, 0)
	default:
		return s, false
	}
	return s, true
}
