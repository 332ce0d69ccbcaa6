package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/Flilipp/Chatbot/core"
)

func TestListConversations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/conversations" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"id":"c1","title":"Pogoda"},{"id":"c2","title":"Nowy czat"}]`)
	}))

	list, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c1" || list[0].Title != "Pogoda" {
		t.Errorf("list = %+v", list)
	}
}

func TestLoadConversation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/c1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"title":"Pogoda","system_prompt":"Bądź zwięzły.","messages":[{"role":"user","content":"Hej"},{"role":"assistant","content":"Cześć"}]}`)
	}))

	snap, err := client.Load(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.ID != "c1" || snap.Title != "Pogoda" || snap.SystemPrompt != "Bądź zwięzły." {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Messages) != 2 || snap.Messages[1].Role != core.MessageRoleAssistant {
		t.Errorf("messages = %+v", snap.Messages)
	}
}

func TestLoadMissingConversation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))

	_, err := client.Load(context.Background(), "gone")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSaveNewConversationReturnsAssignedID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var snap core.ConversationSnapshot
		if err := sonic.Unmarshal(body, &snap); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if snap.ID != core.NewConversationID {
			t.Errorf("posted id = %q, want %q", snap.ID, core.NewConversationID)
		}
		if len(snap.Messages) != 2 {
			t.Errorf("messages = %+v", snap.Messages)
		}
		io.WriteString(w, `{"conversation_id":"assigned-17"}`)
	}))

	id, err := client.Save(context.Background(), &core.ConversationSnapshot{
		Messages: []core.ChatMessage{
			{Role: core.MessageRoleUser, Content: "Hello"},
			{Role: core.MessageRoleAssistant, Content: "Hi there"},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != "assigned-17" {
		t.Errorf("assigned id = %q", id)
	}
}

func TestSaveExistingConversationKeepsID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var snap core.ConversationSnapshot
		if err := sonic.Unmarshal(body, &snap); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if snap.ID != "c9" {
			t.Errorf("posted id = %q", snap.ID)
		}
		io.WriteString(w, `{"conversation_id":"c9"}`)
	}))

	id, err := client.Save(context.Background(), &core.ConversationSnapshot{ID: "c9"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != "c9" {
		t.Errorf("id = %q", id)
	}
}

func TestDeleteConversation(t *testing.T) {
	var method, path string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))

	if err := client.Delete(context.Background(), "c3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if method != http.MethodDelete || path != "/conversations/c3" {
		t.Errorf("%s %s", method, path)
	}
}
