package protocol

import (
	"errors"

	"chronorogue/internal/mud"
	"chronorogue/internal/stage"
)

const (
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrNoTracker       = "E_NO_TRACKER"
	ErrAlreadyJoined   = "E_ALREADY_JOINED"
	ErrBusy            = "E_BUSY"
	ErrRateLimit       = "E_RATE_LIMIT"
	ErrInternal        = "E_INTERNAL"
)

// CodeFor classifies an error from the world.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, stage.ErrNoTracker):
		return ErrNoTracker
	case errors.Is(err, stage.ErrAlreadyJoined):
		return ErrAlreadyJoined
	case errors.Is(err, mud.ErrQueueFull):
		return ErrBusy
	}
	return ErrInternal
}
