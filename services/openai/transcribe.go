// Package openai provides alternative voice providers backed by the OpenAI
// API: Whisper transcription and speech synthesis. They satisfy the same
// contracts as the backend provider and are selected through the factories
// package.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/Flilipp/Chatbot/core"
)

// TranscriberConfig holds the configuration for the Whisper transcriber.
type TranscriberConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model,omitempty"`
	// Language is an optional ISO-639-1 hint, e.g. "pl".
	Language string `json:"language,omitempty"`
}

// WhisperTranscriber transcribes recorded audio via the OpenAI audio API.
type WhisperTranscriber struct {
	client *openai.Client
	config TranscriberConfig
	logger *core.Logger

	mu sync.Mutex
}

// NewWhisperTranscriber creates a Whisper-backed transcriber.
func NewWhisperTranscriber(config TranscriberConfig, logger *core.Logger) (*WhisperTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &WhisperTranscriber{
		client: openai.NewClient(config.APIKey),
		config: config,
		logger: logger.With(map[string]any{"component": "whisper"}),
	}, nil
}

// Transcribe submits one WAV payload and returns the recognized text,
// possibly empty.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.config.Model,
		Language: t.config.Language,
		Reader:   bytes.NewReader(wav),
		FilePath: "recording.wav",
	})
	if err != nil {
		return "", fmt.Errorf("openai: transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
