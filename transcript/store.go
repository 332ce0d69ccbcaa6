// Package transcript holds the in-memory ordered message list of the active
// conversation. It is the single source of truth for rendering. At most one
// assistant message is in flight at a time; it is the only mutable entry.
package transcript

import (
	"sync"

	"github.com/Flilipp/Chatbot/core"
)

type Store struct {
	mu       sync.RWMutex
	messages []core.Message
	inFlight int // index of the in-flight assistant message, -1 when none
}

func New() *Store {
	return &Store{inFlight: -1}
}

// Append adds a finalized message and returns it.
func (s *Store) Append(role core.MessageRole, content string) core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := core.NewMessage(role, content)
	s.messages = append(s.messages, msg)
	return msg
}

// BeginAssistant opens a new empty in-flight assistant message and returns
// its id. Callers must guarantee no other message is in flight.
func (s *Store) BeginAssistant() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := core.NewMessage(core.MessageRoleAssistant, "")
	s.messages = append(s.messages, msg)
	s.inFlight = len(s.messages) - 1
	return msg.ID
}

// AppendToInFlight grows the in-flight message content by one fragment.
// No-op when nothing is in flight.
func (s *Store) AppendToInFlight(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight < 0 {
		return
	}
	s.messages[s.inFlight].Content += text
}

// SetInFlightContent replaces the in-flight content wholesale. Used for
// status display text and for the fixed stream-failure message.
func (s *Store) SetInFlightContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight < 0 {
		return
	}
	s.messages[s.inFlight].Content = text
}

// FinalizeInFlight seals the in-flight message. Its content is immutable
// afterwards.
func (s *Store) FinalizeInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = -1
}

// DropInFlight removes the in-flight message entirely. Used when a stream
// closes without producing any token, so no empty entry lingers.
func (s *Store) DropInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight < 0 {
		return
	}
	s.messages = append(s.messages[:s.inFlight], s.messages[s.inFlight+1:]...)
	s.inFlight = -1
}

// InFlight reports whether an assistant message is currently being filled.
func (s *Store) InFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight >= 0
}

// Messages returns a copy of the transcript.
func (s *Store) Messages() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Wire returns the transcript in wire form, client-local ids stripped.
func (s *Store) Wire() []core.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m.Wire())
	}
	return out
}

// Replace swaps the whole transcript for a loaded conversation. Fresh
// client-local ids are assigned.
func (s *Store) Replace(msgs []core.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = s.messages[:0]
	for _, m := range msgs {
		s.messages = append(s.messages, core.NewMessage(m.Role, m.Content))
	}
	s.inFlight = -1
}

// Clear empties the transcript.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = s.messages[:0]
	s.inFlight = -1
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
