package session

import "errors"

// Phase is the coordinator's state machine. Illegal combinations (sending
// while recording, re-entrant capture) are unrepresentable: the coordinator
// is always in exactly one phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseRecording
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseRecording:
		return "recording"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned when an operation requires the Idle phase and the
	// coordinator is mid-send or mid-recording.
	ErrBusy = errors.New("session busy")

	// ErrNotRecording is returned by StopRecording outside a recording.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrVoiceUnavailable is returned when no recorder is configured.
	ErrVoiceUnavailable = errors.New("voice capture not configured")
)
