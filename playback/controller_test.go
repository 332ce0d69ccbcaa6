package playback

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Flilipp/Chatbot/core"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	audio []byte
	err   error
	// hook runs while Synthesize is in flight, before it returns.
	hook func(text string)
}

func (s *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()
	if s.hook != nil {
		s.hook(text)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.audio != nil {
		return s.audio, nil
	}
	return []byte(text), nil
}

type fakeSink struct {
	mu      sync.Mutex
	played  [][]byte
	stops   int
	playErr error
}

func (s *fakeSink) Play(ctx context.Context, audio []byte) error {
	s.mu.Lock()
	s.played = append(s.played, audio)
	s.mu.Unlock()
	return s.playErr
}

func (s *fakeSink) Stop() {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
}

func TestSpeakPlaysSynthesizedAudio(t *testing.T) {
	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	sink := &fakeSink{}
	ctrl := NewController(synth, sink, core.NewSilentLogger())

	ctrl.Speak(context.Background(), "Cześć")

	if len(synth.calls) != 1 || synth.calls[0] != "Cześć" {
		t.Errorf("synth calls = %v", synth.calls)
	}
	if len(sink.played) != 1 || string(sink.played[0]) != "mp3-bytes" {
		t.Errorf("played = %v", sink.played)
	}
	if sink.stops != 1 {
		t.Errorf("stops = %d, want 1 (sink interrupted before play)", sink.stops)
	}
}

func TestSpeakEmptyTextIsNoOp(t *testing.T) {
	synth := &fakeSynth{}
	sink := &fakeSink{}
	ctrl := NewController(synth, sink, core.NewSilentLogger())

	ctrl.Speak(context.Background(), "")

	if len(synth.calls) != 0 {
		t.Errorf("synth calls = %v, want none", synth.calls)
	}
	if len(sink.played) != 0 || sink.stops != 0 {
		t.Errorf("sink touched: played=%v stops=%d", sink.played, sink.stops)
	}
}

func TestSpeakSwallowsSynthesisFailure(t *testing.T) {
	synth := &fakeSynth{err: errors.New("voice service down")}
	sink := &fakeSink{}
	ctrl := NewController(synth, sink, core.NewSilentLogger())

	ctrl.Speak(context.Background(), "Hello")

	if len(sink.played) != 0 {
		t.Errorf("played = %v, want none", sink.played)
	}
}

func TestSpeakSwallowsPlaybackFailure(t *testing.T) {
	synth := &fakeSynth{}
	sink := &fakeSink{playErr: errors.New("device busy")}
	ctrl := NewController(synth, sink, core.NewSilentLogger())

	// Must not panic or surface the error.
	ctrl.Speak(context.Background(), "Hello")

	if len(sink.played) != 1 {
		t.Errorf("played = %v, want one attempt", sink.played)
	}
}

func TestSpeakLastWriteWins(t *testing.T) {
	sink := &fakeSink{}
	synth := &fakeSynth{}
	ctrl := NewController(synth, sink, core.NewSilentLogger())

	// While the first synthesis is in flight, a second request arrives and
	// completes. The first response is stale and must never reach the sink.
	synth.hook = func(text string) {
		if text == "first" {
			synth.hook = nil
			ctrl.Speak(context.Background(), "second")
		}
	}
	ctrl.Speak(context.Background(), "first")

	if len(sink.played) != 1 || string(sink.played[0]) != "second" {
		t.Errorf("played = %q, want only %q", sink.played, "second")
	}
}
