package transcript

import (
	"testing"

	"github.com/Flilipp/Chatbot/core"
)

func TestAppendAndWire(t *testing.T) {
	s := New()
	s.Append(core.MessageRoleUser, "Hello")
	s.Append(core.MessageRoleAssistant, "Hi")

	wire := s.Wire()
	if len(wire) != 2 {
		t.Fatalf("wire length = %d, want 2", len(wire))
	}
	if wire[0].Role != core.MessageRoleUser || wire[0].Content != "Hello" {
		t.Errorf("wire[0] = %+v", wire[0])
	}
	if wire[1].Role != core.MessageRoleAssistant || wire[1].Content != "Hi" {
		t.Errorf("wire[1] = %+v", wire[1])
	}
}

func TestMessagesHaveUniqueIDs(t *testing.T) {
	s := New()
	a := s.Append(core.MessageRoleUser, "one")
	b := s.Append(core.MessageRoleUser, "two")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q vs %q", a.ID, b.ID)
	}
}

func TestInFlightLifecycle(t *testing.T) {
	s := New()
	s.Append(core.MessageRoleUser, "question")

	s.BeginAssistant()
	if !s.InFlight() {
		t.Fatal("expected in-flight message after BeginAssistant")
	}

	s.AppendToInFlight("Hi")
	s.AppendToInFlight(" there")
	msgs := s.Messages()
	if got := msgs[len(msgs)-1].Content; got != "Hi there" {
		t.Errorf("in-flight content = %q, want %q", got, "Hi there")
	}

	s.FinalizeInFlight()
	if s.InFlight() {
		t.Error("message still in flight after finalize")
	}

	// Mutators are no-ops once nothing is in flight.
	s.AppendToInFlight("junk")
	s.SetInFlightContent("junk")
	msgs = s.Messages()
	if got := msgs[len(msgs)-1].Content; got != "Hi there" {
		t.Errorf("finalized content changed to %q", got)
	}
}

func TestSetInFlightContentReplacesWholesale(t *testing.T) {
	s := New()
	s.BeginAssistant()
	s.AppendToInFlight("partial tokens")
	s.SetInFlightContent("🔎 Wyszukiwanie: pogoda")

	msgs := s.Messages()
	if got := msgs[0].Content; got != "🔎 Wyszukiwanie: pogoda" {
		t.Errorf("content = %q", got)
	}
}

func TestDropInFlight(t *testing.T) {
	s := New()
	s.Append(core.MessageRoleUser, "question")
	s.BeginAssistant()
	s.DropInFlight()

	if s.Len() != 1 {
		t.Errorf("length = %d, want 1", s.Len())
	}
	if s.InFlight() {
		t.Error("still in flight after drop")
	}
}

func TestReplaceAndClear(t *testing.T) {
	s := New()
	s.Append(core.MessageRoleUser, "old")

	s.Replace([]core.ChatMessage{
		{Role: core.MessageRoleUser, Content: "a"},
		{Role: core.MessageRoleAssistant, Content: "b"},
	})
	if s.Len() != 2 {
		t.Fatalf("length after replace = %d", s.Len())
	}
	if s.Messages()[0].ID == "" {
		t.Error("replaced messages should get fresh ids")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("length after clear = %d", s.Len())
	}
}
