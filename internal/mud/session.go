package mud

import (
	"chronorogue/internal/event"
	"chronorogue/internal/leaderboard"
	"chronorogue/internal/stage"

	"github.com/google/uuid"
)

// UpdateBuffer is the capacity of each session's update channel.
const UpdateBuffer = 64

// UpdateKind tags what an Update carries.
type UpdateKind uint8

const (
	UpdateEnter UpdateKind = iota // avatar placed on a stage
	UpdateTurn                    // result of one accepted action
	UpdateLimbo                   // limbo notice about this avatar
	UpdateEnded                   // run over; the session may join again
	UpdateError                   // a command failed
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateEnter:
		return "enter"
	case UpdateTurn:
		return "turn"
	case UpdateLimbo:
		return "limbo"
	case UpdateEnded:
		return "ended"
	case UpdateError:
		return "error"
	}
	return "unknown"
}

// StageInfo describes the stage an avatar stands on.
type StageInfo struct {
	Index  int      `json:"index"`
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Lore   []string `json:"lore,omitempty"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// Update is what the world pushes to a session's transport.
type Update struct {
	Kind   UpdateKind
	Stage  StageInfo
	Result *stage.TurnResult
	Notice *stage.LimboNotice
	Logs   []event.LogEntry // merged timeline after this update
	Run    *leaderboard.Run
	Err    error
}

// Session is one connected player. Exported fields are fixed at creation;
// the rest belong to the processing loop.
type Session struct {
	PlayerID string
	Name     string
	Updates  chan Update

	avatarID string
	stage    int
	logs     []event.LogEntry
}

// NewSession allocates a session with a fresh player id.
func NewSession(name string) *Session {
	return &Session{
		PlayerID: uuid.NewString(),
		Name:     name,
		Updates:  make(chan Update, UpdateBuffer),
	}
}

// newRun gives the session a new avatar identity on its current stage.
func (s *Session) newRun() {
	s.avatarID = uuid.NewString()
	s.logs = nil
}

func (s *Session) mergeLogs(entries []event.LogEntry) {
	s.logs = event.MergeLogs(s.logs, entries, event.MaxLogEntries)
}

// snapshot copies the timeline for handing to another goroutine.
func (s *Session) snapshot() []event.LogEntry {
	if len(s.logs) == 0 {
		return nil
	}
	return append([]event.LogEntry(nil), s.logs...)
}
