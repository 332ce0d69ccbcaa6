// Package factories constructs providers from configuration. Each factory
// config carries one sub-config per supported provider; set exactly one and
// leave the rest nil.
package factories

import (
	"context"
	"errors"

	"github.com/Flilipp/Chatbot/capture"
	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/playback"
	"github.com/Flilipp/Chatbot/services/backend"
	"github.com/Flilipp/Chatbot/services/elevenlabs"
	openaisvc "github.com/Flilipp/Chatbot/services/openai"
	"github.com/Flilipp/Chatbot/session"
	"github.com/Flilipp/Chatbot/store"
	"github.com/Flilipp/Chatbot/store/redisstore"
)

// chatStreamer adapts the backend client to the coordinator's streamer
// contract.
type chatStreamer struct {
	client *backend.Client
}

func (s chatStreamer) StreamCompletion(ctx context.Context, history []core.ChatMessage, systemPrompt string) (session.ChatStream, error) {
	return s.client.StreamCompletion(ctx, history, systemPrompt)
}

// TranscriberFactoryConfig selects the transcription provider. The backend
// /transcribe endpoint is the default when no provider config is set.
type TranscriberFactoryConfig struct {
	OpenAIConfig *openaisvc.TranscriberConfig `json:"openai,omitempty"`
}

// BuildTranscriber constructs a transcriber from the factory config.
func BuildTranscriber(config TranscriberFactoryConfig, client *backend.Client, logger *core.Logger) (capture.Transcriber, error) {
	if config.OpenAIConfig != nil {
		return openaisvc.NewWhisperTranscriber(*config.OpenAIConfig, logger)
	}
	if client == nil {
		return nil, errors.New("TranscriberFactoryConfig: no provider available")
	}
	return client, nil
}

// SynthesizerFactoryConfig selects the speech synthesis provider. The
// backend /synthesize endpoint is the default when no provider config is
// set.
type SynthesizerFactoryConfig struct {
	OpenAIConfig     *openaisvc.SynthesizerConfig `json:"openai,omitempty"`
	ElevenLabsConfig *elevenlabs.Config           `json:"elevenlabs,omitempty"`
}

// BuildSynthesizer constructs a synthesizer from the factory config.
func BuildSynthesizer(config SynthesizerFactoryConfig, client *backend.Client, logger *core.Logger) (playback.Synthesizer, error) {
	if config.OpenAIConfig != nil {
		return openaisvc.NewSynthesizer(*config.OpenAIConfig, logger)
	}
	if config.ElevenLabsConfig != nil {
		return elevenlabs.NewSynthesizer(*config.ElevenLabsConfig, logger)
	}
	if client == nil {
		return nil, errors.New("SynthesizerFactoryConfig: no provider available")
	}
	return client, nil
}

// StoreFactoryConfig selects conversation persistence. The backend
// directory API is the default; Redis and in-memory stores serve
// self-hosted and ephemeral setups.
type StoreFactoryConfig struct {
	RedisConfig *redisstore.Config `json:"redis,omitempty"`
	Memory      bool               `json:"memory,omitempty"`
}

// BuildConversationStore constructs a ConversationStore from the factory
// config.
func BuildConversationStore(config StoreFactoryConfig, client *backend.Client, logger *core.Logger) (store.ConversationStore, error) {
	if config.RedisConfig != nil {
		return redisstore.New(*config.RedisConfig, logger), nil
	}
	if config.Memory {
		return store.NewMemoryStore(), nil
	}
	if client == nil {
		return nil, errors.New("StoreFactoryConfig: no provider available")
	}
	return client, nil
}
