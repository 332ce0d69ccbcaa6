// Package capture records microphone audio and turns it into transcribed
// text. The microphone is an exclusive resource: one recording at a time,
// released on every exit path.
package capture

import (
	"context"

	"github.com/Flilipp/Chatbot/core"
)

// Device abstracts a microphone. Open acquires the device and starts
// delivering audio; it fails with core.ErrPermissionDenied when access is
// refused or no device is available.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open recording. Chunks delivers captured audio until Stop is
// called, after which the channel is closed. Stop releases the underlying
// device and all of its tracks; it is safe to call more than once.
type Stream interface {
	Chunks() <-chan core.AudioChunk
	Stop() error
}

// Transcriber converts one packaged audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
