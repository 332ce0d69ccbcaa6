package core

import "fmt"

// StreamEvent is one item of the incremental chat stream.
type StreamEvent interface {
	GetId() string // Returns the identifier of the event kind.
}

// TokenEvent carries a fragment of assistant text. Fragments are appended to
// the in-flight message in arrival order.
type TokenEvent struct {
	Text string
}

func (e *TokenEvent) GetId() string {
	return "chat.token"
}

// StatusEvent signals an intermediate backend activity (e.g. a search in
// progress). It replaces the displayed in-flight content instead of appending
// to it, and resets accumulation so status text never reaches the persisted
// message.
type StatusEvent struct {
	Label  string
	Detail string
}

func (e *StatusEvent) GetId() string {
	return "chat.status"
}

// Display renders the user-visible transient text for a status event.
// Unknown status kinds fall back to the raw label so forward-compatible
// records still show something sensible.
func (e *StatusEvent) Display() string {
	switch e.Label {
	case "searching":
		return fmt.Sprintf("🔎 Wyszukiwanie: %s", e.Detail)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", e.Label, e.Detail)
		}
		return e.Label
	}
}
