package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a conversation id is unknown to the store.
	ErrNotFound = errors.New("conversation not found")

	// ErrPermissionDenied is returned when microphone access is refused or no
	// capture device is available.
	ErrPermissionDenied = errors.New("microphone permission denied")

	// ErrEmptyResult is returned when transcription or a submission produced
	// nothing usable.
	ErrEmptyResult = errors.New("empty result")

	// ErrNetwork marks connection failures and mid-stream drops.
	ErrNetwork = errors.New("network failure")
)

// RemoteError is a non-2xx response carrying a structured detail message.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("remote error: status %d", e.StatusCode)
}
