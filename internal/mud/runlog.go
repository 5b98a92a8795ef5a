package mud

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chronorogue/internal/leaderboard"
	"chronorogue/internal/stage"
)

// Run outcomes besides the limbo statuses.
const OutcomeLeft = "left"

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, r leaderboard.Run) error
}

// runFor builds the record of a finished run. a may be nil when the engine
// no longer knew the avatar.
func runFor(sess *Session, a *stage.Avatar, stageID, outcome string) leaderboard.Run {
	r := leaderboard.Run{
		PlayerID: sess.PlayerID,
		Name:     sess.Name,
		Stage:    stageID,
		Outcome:  outcome,
		EndedAt:  time.Now(),
	}
	if a != nil {
		r.Orbs = a.Orbs
		r.Turns = a.Turns
	}
	return r
}

// JSONLRecorder appends each run as a single JSON line to a file.
type JSONLRecorder struct {
	Path string

	mu sync.Mutex
}

// Record implements Recorder.
func (j *JSONLRecorder) Record(_ context.Context, r leaderboard.Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// DefaultRunLogPath is runs.jsonl under the XDG data directory.
func DefaultRunLogPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "chronorogue", "runs.jsonl"), nil
}
