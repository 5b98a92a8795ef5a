package protocol

import (
	"fmt"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
	"chronorogue/internal/gamemap"
	"chronorogue/internal/leaderboard"
	"chronorogue/internal/mud"
	"chronorogue/internal/stage"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version,omitempty"`
	Action          ActionSpec `json:"action"`
	Senses          SensesSpec `json:"senses"`
}

type ActionSpec struct {
	Kind string `json:"kind"`
	Dir  string `json:"dir,omitempty"`
}

type SensesSpec struct {
	Self    bool `json:"self,omitempty"`
	Sight   int  `json:"sight,omitempty"`
	Touch   bool `json:"touch,omitempty"`
	Hearing int  `json:"hearing,omitempty"`
}

// Decode converts the wire action into engine input.
func (m ActMsg) Decode() (stage.Action, component.Senses, error) {
	kind, err := stage.ParseActionKind(m.Action.Kind)
	if err != nil {
		return stage.Action{}, component.Senses{}, err
	}
	act := stage.Action{Kind: kind}
	if kind != stage.ActWait {
		d, ok := component.ParseDir(m.Action.Dir)
		if !ok || d == component.DirNone {
			return stage.Action{}, component.Senses{}, fmt.Errorf("bad direction %q", m.Action.Dir)
		}
		act.Dir = d
	}
	return act, m.Senses.Senses(), nil
}

func (s SensesSpec) Senses() component.Senses {
	return component.Senses{Self: s.Self, Sight: s.Sight, Touch: s.Touch, Hearing: s.Hearing}
}

// JOIN (client -> server): start a new run or resynchronize.
type JoinMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	PlayerID        string          `json:"player_id"`
	Name            string          `json:"name"`
	Stages          []mud.StageInfo `json:"stages"`
}

// ENTER (server -> client)
type EnterMsg struct {
	Type  string        `json:"type"`
	Stage mud.StageInfo `json:"stage"`
}

// TURN (server -> client)
type TurnMsg struct {
	Type       string           `json:"type"`
	Turn       int              `json:"turn"`
	Outcome    string           `json:"outcome"`
	Dir        string           `json:"dir,omitempty"`
	Target     string           `json:"target,omitempty"`
	Transition string           `json:"transition,omitempty"`
	Tired      bool             `json:"tired,omitempty"`
	Perception *PerceptionMsg   `json:"perception,omitempty"`
	Logs       []event.LogEntry `json:"logs"`
	Timeline   []event.LogEntry `json:"timeline"`
}

type PerceptionMsg struct {
	Pos      [2]int       `json:"pos"`
	Senses   SensesSpec   `json:"senses"`
	Vitals   *VitalsMsg   `json:"self,omitempty"`
	Window   *WindowMsg   `json:"window,omitempty"`
	Contacts []ContactMsg `json:"contacts,omitempty"`
}

type VitalsMsg struct {
	HP       int `json:"hp"`
	MaxHP    int `json:"max_hp"`
	Focus    int `json:"focus"`
	MaxFocus int `json:"max_focus"`
	Orbs     int `json:"orbs"`
}

// WindowMsg is the sight window as layout rows centered on the avatar.
// Unrevealed cells are spaces.
type WindowMsg struct {
	Radius int      `json:"radius"`
	Rows   []string `json:"rows"`
}

type ContactMsg struct {
	Sense  string `json:"sense"`
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Offset [2]int `json:"offset"`
	HP     int    `json:"hp,omitempty"`
	Dead   bool   `json:"dead,omitempty"`
}

// LIMBO (server -> client)
type LimboMsg struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Turn   int    `json:"turn"`
}

// ENDED (server -> client)
type EndedMsg struct {
	Type string          `json:"type"`
	Run  leaderboard.Run `json:"run"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewError(code, msg string) ErrorMsg {
	return ErrorMsg{Type: TypeError, Code: code, Message: msg}
}

// FromUpdate converts a world update into its outbound frame.
func FromUpdate(u mud.Update) any {
	switch u.Kind {
	case mud.UpdateEnter:
		return EnterMsg{Type: TypeEnter, Stage: u.Stage}
	case mud.UpdateTurn:
		return NewTurn(u.Result, u.Logs)
	case mud.UpdateLimbo:
		return LimboMsg{Type: TypeLimbo, Status: u.Notice.Status.String(), Turn: u.Notice.Turn}
	case mud.UpdateEnded:
		return EndedMsg{Type: TypeEnded, Run: *u.Run}
	}
	msg := "unknown update"
	if u.Err != nil {
		msg = u.Err.Error()
	}
	return NewError(CodeFor(u.Err), msg)
}

// NewTurn builds a TURN frame. timeline is the reconciled log.
func NewTurn(res *stage.TurnResult, timeline []event.LogEntry) TurnMsg {
	m := TurnMsg{
		Type:       TypeTurn,
		Turn:       res.Turn,
		Outcome:    res.Resolved.Outcome.String(),
		Target:     res.Resolved.Target,
		Perception: NewPerception(res.Perception),
		Logs:       res.Logs,
		Timeline:   timeline,
	}
	if res.Resolved.Dir != component.DirNone {
		m.Dir = res.Resolved.Dir.String()
	}
	if res.Transition != stage.TransitionNone {
		m.Transition = res.Transition.String()
	}
	if res.Avatar != nil {
		m.Tired = res.Avatar.Tired
	}
	if m.Logs == nil {
		m.Logs = []event.LogEntry{}
	}
	if m.Timeline == nil {
		m.Timeline = []event.LogEntry{}
	}
	return m
}

// NewPerception converts a perception, nil for a tired turn.
func NewPerception(p *stage.Perception) *PerceptionMsg {
	if p == nil {
		return nil
	}
	m := &PerceptionMsg{
		Pos:    [2]int{p.Pos.X, p.Pos.Y},
		Senses: SensesSpec{Self: p.Senses.Self, Sight: p.Senses.Sight, Touch: p.Senses.Touch, Hearing: p.Senses.Hearing},
	}
	for _, info := range p.Info {
		if v := info.Vitals; v != nil {
			m.Vitals = &VitalsMsg{HP: v.HP, MaxHP: v.MaxHP, Focus: v.Focus, MaxFocus: v.MaxFocus, Orbs: v.Orbs}
		}
		if info.Window != nil {
			m.Window = windowRows(info.Window.Origin, info.Window.Radius, info.Window.KindAt)
		}
		for _, c := range info.Contacts {
			m.Contacts = append(m.Contacts, ContactMsg{
				Sense:  info.Kind.String(),
				Kind:   c.Kind.String(),
				ID:     c.ID,
				Name:   c.Name,
				Offset: [2]int{c.Offset.X, c.Offset.Y},
				HP:     c.HP,
				Dead:   c.Dead,
			})
		}
	}
	return m
}

func windowRows(origin component.Position, radius int, kindAt func(component.Position) (gamemap.TileKind, bool)) *WindowMsg {
	w := &WindowMsg{Radius: radius}
	for dy := -radius; dy <= radius; dy++ {
		row := make([]rune, 0, 2*radius+1)
		for dx := -radius; dx <= radius; dx++ {
			k, ok := kindAt(component.Position{X: origin.X + dx, Y: origin.Y + dy})
			if !ok {
				row = append(row, ' ')
				continue
			}
			row = append(row, k.Glyph())
		}
		w.Rows = append(w.Rows, string(row))
	}
	return w
}
