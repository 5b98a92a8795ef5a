package stage

import (
	"errors"
	"fmt"
)

var (
	ErrNoTracker       = errors.New("avatar is not tracked on this stage")
	ErrNoCheckpoint    = errors.New("no checkpoint for turn")
	ErrDiffOutOfWindow = errors.New("turn is outside the diff window")
	ErrAlreadyJoined   = errors.New("avatar already joined")
)

// TrackerError reports a command for an avatar the engine does not track.
type TrackerError struct {
	AvatarID string
}

func (e *TrackerError) Error() string {
	return fmt.Sprintf("avatar %q: %v", e.AvatarID, ErrNoTracker)
}

func (e *TrackerError) Unwrap() error { return ErrNoTracker }

// CheckpointError reports a missing state checkpoint.
type CheckpointError struct {
	Turn int
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("turn %d: %v", e.Turn, ErrNoCheckpoint)
}

func (e *CheckpointError) Unwrap() error { return ErrNoCheckpoint }

// WindowError reports a diff lookup outside [First, Head].
type WindowError struct {
	Turn, First, Head int
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("turn %d not in [%d, %d]: %v", e.Turn, e.First, e.Head, ErrDiffOutOfWindow)
}

func (e *WindowError) Unwrap() error { return ErrDiffOutOfWindow }
