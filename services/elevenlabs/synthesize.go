// Package elevenlabs provides a speech synthesizer backed by the ElevenLabs
// WebSocket streaming API. Each Synthesize call runs one complete
// stream-input session and returns the assembled audio payload.
package elevenlabs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/Flilipp/Chatbot/core"
)

// Config holds configuration for the ElevenLabs synthesizer.
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`

	// Voice settings
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesizer implements speech synthesis over the ElevenLabs WebSocket API.
type Synthesizer struct {
	config Config
	logger *core.Logger

	mu sync.Mutex // one synthesis session at a time
}

// Client messages
type (
	// BOS (Beginning of Stream) - sent once on connect
	bosMessage struct {
		Text             string        `json:"text"`
		VoiceSettings    voiceSettings `json:"voice_settings"`
		GenerationConfig genConfig     `json:"generation_config"`
	}

	voiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
	}

	genConfig struct {
		ChunkLengthSchedule []int `json:"chunk_length_schedule"`
	}

	textMessage struct {
		Text string `json:"text"`
	}
)

// Server messages
type (
	audioMessage struct {
		Audio   string `json:"audio"`
		IsFinal bool   `json:"isFinal"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
)

// NewSynthesizer creates an ElevenLabs synthesizer with the provided config.
func NewSynthesizer(config Config, logger *core.Logger) (*Synthesizer, error) {
	if config.APIKey == "" {
		return nil, errors.New("elevenlabs: API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "wss://api.elevenlabs.io/v1/text-to-speech"
	}
	if config.VoiceID == "" {
		config.VoiceID = "21m00Tcm4TlvDq8ikWAM" // Default: Rachel
	}
	if config.ModelID == "" {
		config.ModelID = "eleven_turbo_v2_5"
	}
	if config.Stability == 0 {
		config.Stability = 0.5
	}
	if config.SimilarityBoost == 0 {
		config.SimilarityBoost = 0.75
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Synthesizer{
		config: config,
		logger: logger.With(map[string]any{"component": "elevenlabs"}),
	}, nil
}

// Synthesize runs one streaming session: connect, send the text, collect
// audio chunks until the server marks the stream final, and return the
// assembled payload.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: connect: %w", err)
	}
	defer conn.Close()

	if err := s.sendJSON(conn, bosMessage{
		Text: " ",
		VoiceSettings: voiceSettings{
			Stability:       s.config.Stability,
			SimilarityBoost: s.config.SimilarityBoost,
		},
		GenerationConfig: genConfig{
			ChunkLengthSchedule: []int{120, 160, 250, 290},
		},
	}); err != nil {
		return nil, fmt.Errorf("elevenlabs: send BOS: %w", err)
	}
	if err := s.sendJSON(conn, textMessage{Text: text + " "}); err != nil {
		return nil, fmt.Errorf("elevenlabs: send text: %w", err)
	}
	// EOS: an empty text message flushes and closes the generation.
	if err := s.sendJSON(conn, textMessage{Text: ""}); err != nil {
		return nil, fmt.Errorf("elevenlabs: send EOS: %w", err)
	}

	return s.collect(ctx, conn)
}

func (s *Synthesizer) dial(ctx context.Context) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s/%s/stream-input?model_id=%s&output_format=mp3_44100_128",
		s.config.BaseURL,
		s.config.VoiceID,
		s.config.ModelID,
	)

	headers := map[string][]string{
		"xi-api-key": {s.config.APIKey},
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Synthesizer) sendJSON(conn *websocket.Conn, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Synthesizer) collect(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var audio []byte
	for {
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(deadline)
		} else {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(audio) > 0 {
				return audio, nil
			}
			return nil, fmt.Errorf("elevenlabs: read: %w", err)
		}

		var msg audioMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("skipping undecodable server message", "error", err)
			continue
		}
		if msg.Error != "" {
			return nil, fmt.Errorf("elevenlabs: server error: %s %s", msg.Error, msg.Message)
		}
		if msg.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				s.logger.Warn("skipping undecodable audio chunk", "error", err)
				continue
			}
			audio = append(audio, chunk...)
		}
		if msg.IsFinal {
			return audio, nil
		}
	}
}
