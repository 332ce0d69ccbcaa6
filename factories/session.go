package factories

import (
	"fmt"

	"github.com/Flilipp/Chatbot/capture"
	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/playback"
	"github.com/Flilipp/Chatbot/services/backend"
	"github.com/Flilipp/Chatbot/session"
)

// SessionConfig assembles everything a conversation session needs.
type SessionConfig struct {
	Backend     backend.Config           `json:"backend"`
	Transcriber TranscriberFactoryConfig `json:"transcriber,omitempty"`
	Synthesizer SynthesizerFactoryConfig `json:"synthesizer,omitempty"`
	Store       StoreFactoryConfig       `json:"store,omitempty"`
	Session     session.Config           `json:"session,omitempty"`
}

// BuildSession wires a full session coordinator: backend client, chat
// streamer, conversation store, and — when a capture device and playback
// sink are provided — the voice controllers. device and sink may be nil for
// text-only sessions.
func BuildSession(
	config SessionConfig,
	creds core.CredentialProvider,
	device capture.Device,
	sink playback.Sink,
	logger *core.Logger,
) (*session.Coordinator, error) {
	if logger == nil {
		logger = core.GetLogger()
	}

	client := backend.NewClient(config.Backend, creds, logger)

	convs, err := BuildConversationStore(config.Store, client, logger)
	if err != nil {
		return nil, fmt.Errorf("build conversation store: %w", err)
	}

	var recorder session.VoiceRecorder
	if device != nil {
		transcriber, err := BuildTranscriber(config.Transcriber, client, logger)
		if err != nil {
			return nil, fmt.Errorf("build transcriber: %w", err)
		}
		recorder = capture.NewRecorder(device, transcriber, logger)
	}

	var speaker session.Speaker
	if sink != nil {
		synth, err := BuildSynthesizer(config.Synthesizer, client, logger)
		if err != nil {
			return nil, fmt.Errorf("build synthesizer: %w", err)
		}
		speaker = playback.NewController(synth, sink, logger)
	}

	return session.New(chatStreamer{client: client}, convs, recorder, speaker, config.Session, logger), nil
}
