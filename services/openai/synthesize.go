package openai

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/Flilipp/Chatbot/core"
)

// SynthesizerConfig holds the configuration for the OpenAI speech
// synthesizer.
type SynthesizerConfig struct {
	APIKey string  `json:"api_key"`
	Model  string  `json:"model,omitempty"`
	Voice  string  `json:"voice,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
}

// Synthesizer renders text to audio via the OpenAI speech API.
type Synthesizer struct {
	client *openai.Client
	config SynthesizerConfig
	logger *core.Logger

	mu sync.Mutex
}

// NewSynthesizer creates an OpenAI-backed speech synthesizer.
func NewSynthesizer(config SynthesizerConfig, logger *core.Logger) (*Synthesizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if config.Model == "" {
		config.Model = string(openai.TTSModel1)
	}
	if config.Voice == "" {
		config.Voice = string(openai.VoiceAlloy)
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Synthesizer{
		client: openai.NewClient(config.APIKey),
		config: config,
		logger: logger.With(map[string]any{"component": "openai-tts"}),
	}, nil
}

// Synthesize submits text and returns the complete audio payload.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.config.Model),
		Input: text,
		Voice: openai.SpeechVoice(s.config.Voice),
		Speed: s.config.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: speech synthesis failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai: read synthesized audio: %w", err)
	}
	return audio, nil
}
