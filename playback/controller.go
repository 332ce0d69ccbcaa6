// Package playback plays synthesized speech through a single shared sink.
// At most one playback is active; a new request replaces whatever currently
// holds the sink (last-write-wins, no queueing).
package playback

import (
	"context"
	"sync"

	"github.com/Flilipp/Chatbot/core"
)

// Sink is an owned audio output. Play blocks until the payload finishes or
// Stop interrupts it. Stop is safe to call when nothing is playing.
type Sink interface {
	Play(ctx context.Context, audio []byte) error
	Stop()
}

// Synthesizer renders text to a complete audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Controller sequences synthesis and exclusive playback.
type Controller struct {
	synth  Synthesizer
	sink   Sink
	logger *core.Logger

	mu         sync.Mutex
	generation uint64 // bumped per request; stale playbacks yield the sink
}

// NewController creates a playback controller.
func NewController(synth Synthesizer, sink Sink, logger *core.Logger) *Controller {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Controller{
		synth:  synth,
		sink:   sink,
		logger: logger.With(map[string]any{"component": "playback"}),
	}
}

// Speak synthesizes text and plays it. Empty text is a no-op. Failures are
// logged and discarded: playback simply does not happen, and no error
// reaches the transcript.
func (c *Controller) Speak(ctx context.Context, text string) {
	if text == "" {
		return
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	audio, err := c.synth.Synthesize(ctx, text)
	if err != nil {
		c.logger.Warn("speech synthesis failed", "error", err)
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		// A newer request claimed the sink while we were synthesizing.
		c.mu.Unlock()
		return
	}
	c.sink.Stop() // interrupt whatever is on the sink
	c.mu.Unlock()

	if err := c.sink.Play(ctx, audio); err != nil {
		c.logger.Warn("audio playback failed", "error", err)
	}
}
