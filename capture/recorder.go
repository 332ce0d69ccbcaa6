package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/utils/audio"
)

var (
	// ErrAlreadyRecording is returned by Start while a capture is active.
	ErrAlreadyRecording = errors.New("capture already in progress")
	// ErrNotRecording is returned by Stop when no capture is active.
	ErrNotRecording = errors.New("no capture in progress")
)

// Recorder drives one capture cycle: acquire the device, collect chunks
// until stopped, package the recording, and submit it for transcription.
type Recorder struct {
	device      Device
	transcriber Transcriber
	logger      *core.Logger

	mu        sync.Mutex
	stream    Stream
	collected []core.AudioChunk
	done      chan struct{}
}

// NewRecorder creates a recorder over the given device and transcriber.
func NewRecorder(device Device, transcriber Transcriber, logger *core.Logger) *Recorder {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Recorder{
		device:      device,
		transcriber: transcriber,
		logger:      logger.With(map[string]any{"component": "recorder"}),
	}
}

// Start acquires the microphone and begins collecting audio. Only one
// capture may be active at a time.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return ErrAlreadyRecording
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		if errors.Is(err, core.ErrPermissionDenied) {
			return err
		}
		return fmt.Errorf("capture: open device: %w", err)
	}

	r.stream = stream
	r.collected = r.collected[:0]
	r.done = make(chan struct{})
	go r.collect(stream, r.done)
	return nil
}

func (r *Recorder) collect(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		r.mu.Lock()
		r.collected = append(r.collected, chunk)
		r.mu.Unlock()
	}
}

// Stop finalizes the recording into a single audio payload, submits it to
// the transcription service, and returns the recognized text, possibly
// empty. The microphone is released before transcription is attempted, so
// release happens on every exit path.
func (r *Recorder) Stop(ctx context.Context) (string, error) {
	r.mu.Lock()
	stream := r.stream
	done := r.done
	r.stream = nil
	r.mu.Unlock()

	if stream == nil {
		return "", ErrNotRecording
	}

	if err := stream.Stop(); err != nil {
		r.logger.Warn("device release reported an error", "error", err)
	}
	<-done // collector drains the closed chunk channel

	r.mu.Lock()
	chunks := r.collected
	r.collected = nil
	r.mu.Unlock()

	if len(chunks) == 0 {
		return "", nil
	}

	wav, err := audio.ChunksToWav(chunks)
	if err != nil {
		return "", fmt.Errorf("capture: package recording: %w", err)
	}

	text, err := r.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return "", fmt.Errorf("capture: transcription: %w", err)
	}
	return text, nil
}

// Recording reports whether a capture is currently active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}
