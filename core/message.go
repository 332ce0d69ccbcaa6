package core

import "github.com/google/uuid"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// Message is a transcript entry. The ID is client-generated, unique for the
// lifetime of a session, and stripped before transmission.
type Message struct {
	ID      string
	Role    MessageRole
	Content string
}

// NewMessage creates a message with a fresh client-local identifier.
func NewMessage(role MessageRole, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
	}
}

// ChatMessage is the wire form of a message: role and content only.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Wire strips the client-local identifier from a message.
func (m Message) Wire() ChatMessage {
	return ChatMessage{Role: m.Role, Content: m.Content}
}

// NewConversationID is the sentinel id of a conversation that has never been
// persisted. The first successful save replaces it with a store-assigned id.
const NewConversationID = "new"

// DefaultSystemPrompt steers the assistant when the session carries no
// explicit prompt.
const DefaultSystemPrompt = "Jesteś pomocnym asystentem AI. Zawsze odpowiadaj na pytania i prowadź konwersację wyłącznie w języku polskim."

// DefaultConversationTitle is used when title generation fails or produces
// nothing usable.
const DefaultConversationTitle = "Nowy czat"

// StreamFailureMessage replaces the in-flight assistant message when the chat
// stream drops mid-way.
const StreamFailureMessage = "Przepraszam, wystąpił błąd połączenia. Spróbuj ponownie."

// ConversationSummary is one directory listing entry.
type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ConversationSnapshot is the whole-conversation unit of persistence. It is
// written after every completed exchange, never incrementally.
type ConversationSnapshot struct {
	ID           string        `json:"id"`
	Title        string        `json:"title,omitempty"`
	Messages     []ChatMessage `json:"messages"`
	SystemPrompt string        `json:"system_prompt,omitempty"`
}
