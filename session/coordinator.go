// Package session orchestrates the conversation engine: transcript state,
// the streaming chat driver, conversation persistence, and voice capture and
// playback sequencing. It owns the active conversation identifier and
// guarantees at most one in-flight send per conversation.
package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/store"
	"github.com/Flilipp/Chatbot/transcript"
)

// titlePrompt asks the model for a short display title for a freshly
// persisted conversation.
const titlePrompt = "Podsumuj tę rozmowę w 2 do 4 słowach. To będzie użyte jako nazwa rozmowy. Odpowiedz tylko i wyłącznie samym tytułem, bez żadnych dodatkowych zdań i znaków interpunkcyjnych."

// ChatStream is one open chat response. Recv returns io.EOF when the stream
// is exhausted; any other error is a mid-stream failure.
type ChatStream interface {
	Recv() (core.StreamEvent, error)
	Close() error
}

// ChatStreamer opens chat requests against the inference service.
type ChatStreamer interface {
	StreamCompletion(ctx context.Context, history []core.ChatMessage, systemPrompt string) (ChatStream, error)
}

// VoiceRecorder captures microphone audio and returns transcribed text.
type VoiceRecorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (string, error)
}

// Speaker plays synthesized speech. Failures never propagate.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Config holds coordinator settings.
type Config struct {
	SystemPrompt   string `json:"system_prompt,omitempty"`
	TTSEnabled     bool   `json:"tts_enabled,omitempty"`
	GenerateTitles bool   `json:"generate_titles,omitempty"`
}

// Coordinator sequences capture → send → stream → persist → synthesize over
// a single mutable transcript. All state mutation is serialized under one
// mutex; remote I/O runs on goroutines that re-check the session generation
// before touching state, so a superseded stream can never clobber a freshly
// started session.
type Coordinator struct {
	streamer ChatStreamer
	convs    store.ConversationStore
	recorder VoiceRecorder
	speaker  Speaker
	logger   *core.Logger

	mu             sync.Mutex
	phase          Phase
	generation     uint64
	activeID       string
	activeTitle    string
	systemPrompt   string
	ttsEnabled     bool
	generateTitles bool
	transcript     *transcript.Store
	directory      []core.ConversationSummary

	onChange func()
}

// New creates a coordinator. recorder and speaker may be nil when voice is
// not wired up.
func New(streamer ChatStreamer, convs store.ConversationStore, recorder VoiceRecorder, speaker Speaker, config Config, logger *core.Logger) *Coordinator {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Coordinator{
		streamer:       streamer,
		convs:          convs,
		recorder:       recorder,
		speaker:        speaker,
		logger:         logger.With(map[string]any{"component": "session"}),
		phase:          PhaseIdle,
		activeID:       core.NewConversationID,
		systemPrompt:   config.SystemPrompt,
		ttsEnabled:     config.TTSEnabled,
		generateTitles: config.GenerateTitles,
		transcript:     transcript.New(),
	}
}

// OnChange registers a callback invoked after every observable state change.
// The callback runs outside the coordinator lock.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Phase returns the current state machine phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// ActiveConversationID returns the active id, or the "new" sentinel.
func (c *Coordinator) ActiveConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Transcript returns the transcript store. Rendering reads from it directly.
func (c *Coordinator) Transcript() *transcript.Store {
	return c.transcript
}

// SystemPrompt returns the active system prompt.
func (c *Coordinator) SystemPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.systemPrompt
}

// SetSystemPrompt changes the prompt for subsequent sends. Only allowed
// while Idle.
func (c *Coordinator) SetSystemPrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.systemPrompt = prompt
	return nil
}

// SetTTSEnabled toggles voice output for completed exchanges.
func (c *Coordinator) SetTTSEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttsEnabled = enabled
}

// TTSEnabled reports whether voice output is on.
func (c *Coordinator) TTSEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttsEnabled
}

// Directory returns the cached conversation listing.
func (c *Coordinator) Directory() []core.ConversationSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.ConversationSummary, len(c.directory))
	copy(out, c.directory)
	return out
}

// RefreshDirectory reloads the conversation listing. The refresh is
// eventually consistent with concurrent saves and deletes; a briefly stale
// list is acceptable.
func (c *Coordinator) RefreshDirectory(ctx context.Context) error {
	listing, err := c.convs.List(ctx)
	if err != nil {
		c.logger.Error("failed to refresh conversation directory", "error", err)
		return err
	}
	c.mu.Lock()
	c.directory = listing
	c.mu.Unlock()
	c.notify()
	return nil
}

// Submit sends user text. Blank input (after trimming) is ignored. Returns
// ErrBusy while a send or recording is in flight; the stream itself runs in
// the background and completion is observable via OnChange and Phase.
func (c *Coordinator) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = PhaseSending
	gen := c.generation
	c.transcript.Append(core.MessageRoleUser, text)
	history := c.transcript.Wire()
	prompt := c.systemPrompt
	c.transcript.BeginAssistant()
	c.mu.Unlock()
	c.notify()

	go c.runStream(ctx, gen, history, prompt)
	return nil
}

// runStream consumes one chat stream and applies its events to the
// transcript strictly in arrival order. gen pins the session generation the
// stream was issued under; once it goes stale no further event is applied.
func (c *Coordinator) runStream(ctx context.Context, gen uint64, history []core.ChatMessage, prompt string) {
	stream, err := c.streamer.StreamCompletion(ctx, history, prompt)
	if err != nil {
		c.failStream(gen, err)
		return
	}
	defer stream.Close()

	var acc strings.Builder
	statusShown := false
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.failStream(gen, err)
			return
		}

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		switch e := ev.(type) {
		case *core.TokenEvent:
			acc.WriteString(e.Text)
			if statusShown {
				// Real output resumes: drop the transient status text.
				c.transcript.SetInFlightContent(acc.String())
				statusShown = false
			} else {
				c.transcript.AppendToInFlight(e.Text)
			}
		case *core.StatusEvent:
			// Status replaces the display and resets accumulation so the
			// persisted message reflects only model output.
			acc.Reset()
			statusShown = true
			c.transcript.SetInFlightContent(e.Display())
		}
		c.mu.Unlock()
		c.notify()
	}

	c.completeStream(ctx, gen, acc.String())
}

// failStream replaces the in-flight message with the fixed error string and
// returns to Idle. Nothing is persisted.
func (c *Coordinator) failStream(gen uint64, err error) {
	c.logger.Error("chat stream failed", "error", err)
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.transcript.SetInFlightContent(core.StreamFailureMessage)
	c.transcript.FinalizeInFlight()
	c.phase = PhaseIdle
	c.mu.Unlock()
	c.notify()
}

// completeStream finalizes the exchange: persist the snapshot, adopt the
// store-assigned id, refresh the directory, and dispatch synthesis. A stream
// that produced no token is not persisted.
func (c *Coordinator) completeStream(ctx context.Context, gen uint64, final string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	if final == "" {
		c.transcript.DropInFlight()
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.notify()
		return
	}
	c.transcript.FinalizeInFlight()
	snapshot := &core.ConversationSnapshot{
		ID:           c.activeID,
		Title:        c.activeTitle,
		Messages:     c.transcript.Wire(),
		SystemPrompt: c.systemPrompt,
	}
	isNew := c.activeID == core.NewConversationID
	c.mu.Unlock()
	c.notify()

	if isNew {
		snapshot.Title = c.deriveTitle(ctx, snapshot.Messages)
	}

	assigned, err := c.convs.Save(ctx, snapshot)
	if err != nil {
		c.logger.Error("failed to persist conversation", "error", err)
	} else {
		c.mu.Lock()
		if gen == c.generation {
			c.activeID = assigned
			c.activeTitle = snapshot.Title
		}
		c.mu.Unlock()
		_ = c.RefreshDirectory(ctx)
	}

	c.mu.Lock()
	tts := c.ttsEnabled && c.speaker != nil
	c.mu.Unlock()
	if tts {
		// Fire-and-forget: synthesis failure neither reverts the state
		// machine nor blocks further input.
		go c.speaker.Speak(ctx, final)
	}

	c.mu.Lock()
	if gen == c.generation && c.phase == PhaseSending {
		c.phase = PhaseIdle
	}
	c.mu.Unlock()
	c.notify()
}

// deriveTitle asks the model to summarize the conversation in a few words.
// Any failure falls back to the default title.
func (c *Coordinator) deriveTitle(ctx context.Context, history []core.ChatMessage) string {
	if !c.generateTitles {
		return core.DefaultConversationTitle
	}

	request := make([]core.ChatMessage, 0, len(history)+1)
	request = append(request, history...)
	request = append(request, core.ChatMessage{Role: core.MessageRoleUser, Content: titlePrompt})

	stream, err := c.streamer.StreamCompletion(ctx, request, "")
	if err != nil {
		c.logger.Warn("title generation failed", "error", err)
		return core.DefaultConversationTitle
	}
	defer stream.Close()

	var b strings.Builder
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Warn("title generation failed", "error", err)
			return core.DefaultConversationTitle
		}
		if token, ok := ev.(*core.TokenEvent); ok {
			b.WriteString(token.Text)
		}
	}

	title := sanitizeTitle(b.String())
	if title == "" {
		return core.DefaultConversationTitle
	}
	return title
}

var titleReplacer = strings.NewReplacer(`"`, "", "'", "")

// sanitizeTitle strips quoting and collapses whitespace.
func sanitizeTitle(title string) string {
	return strings.Join(strings.Fields(titleReplacer.Replace(title)), " ")
}

// StartRecording acquires the microphone. Recording and sending are
// mutually exclusive, enforced by the Idle guard.
func (c *Coordinator) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.recorder == nil {
		c.mu.Unlock()
		return ErrVoiceUnavailable
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = PhaseRecording
	c.mu.Unlock()

	if err := c.recorder.Start(ctx); err != nil {
		c.mu.Lock()
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.notify()
	return nil
}

// StopRecording finalizes the capture, transcribes it, and submits the
// recognized text as a user message. Empty or failed transcription returns
// the session to Idle without sending.
func (c *Coordinator) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseRecording {
		c.mu.Unlock()
		return ErrNotRecording
	}
	c.mu.Unlock()

	text, err := c.recorder.Stop(ctx)

	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Error("transcription failed", "error", err)
		return err
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Info("transcription produced no text")
		return nil
	}
	return c.Submit(ctx, text)
}

// NewChat resets the session: empty transcript, "new" sentinel id, empty
// system prompt. Only permitted from Idle. In-flight stream events from the
// abandoned session are ignored from this point on.
func (c *Coordinator) NewChat() error {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.resetLocked()
	c.mu.Unlock()
	c.notify()
	return nil
}

// resetLocked is the new-chat reset. Callers hold c.mu.
func (c *Coordinator) resetLocked() {
	c.generation++
	c.transcript.Clear()
	c.activeID = core.NewConversationID
	c.activeTitle = ""
	c.systemPrompt = ""
}

// Select replaces the session with a conversation loaded from the
// directory. Only permitted from Idle. A NotFound load is logged and leaves
// the current transcript untouched.
func (c *Coordinator) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.mu.Unlock()

	snap, err := c.convs.Load(ctx, id)
	if err != nil {
		c.logger.Error("failed to load conversation", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.generation++
	c.transcript.Replace(snap.Messages)
	c.activeID = id
	c.activeTitle = snap.Title
	c.systemPrompt = snap.SystemPrompt
	c.mu.Unlock()
	c.notify()
	return nil
}

// Delete removes a conversation. Deleting the active conversation performs
// the new-chat reset before the deletion call completes.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if id == c.activeID {
		if c.phase != PhaseIdle {
			c.mu.Unlock()
			return ErrBusy
		}
		c.resetLocked()
	}
	c.mu.Unlock()
	c.notify()

	if err := c.convs.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete conversation", "id", id, "error", err)
		return err
	}
	_ = c.RefreshDirectory(ctx)
	return nil
}
