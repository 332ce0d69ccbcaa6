package backend

import (
	"context"
	"net/http"

	"github.com/Flilipp/Chatbot/core"
)

// The backend client is the primary store.ConversationStore implementation.

// List fetches the conversation directory.
func (c *Client) List(ctx context.Context) ([]core.ConversationSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, err
	}
	var out []core.ConversationSummary
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load fetches one conversation. A missing id fails with core.ErrNotFound.
func (c *Client) Load(ctx context.Context, id string) (*core.ConversationSnapshot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations/"+id, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Messages     []core.ChatMessage `json:"messages"`
		SystemPrompt string             `json:"system_prompt"`
		Title        string             `json:"title"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &core.ConversationSnapshot{
		ID:           id,
		Title:        out.Title,
		Messages:     out.Messages,
		SystemPrompt: out.SystemPrompt,
	}, nil
}

// Save persists a whole conversation snapshot. The "new" sentinel id makes
// the remote store allocate a fresh identifier; any other id upserts. The
// assigned id is returned either way.
func (c *Client) Save(ctx context.Context, snap *core.ConversationSnapshot) (string, error) {
	body := core.ConversationSnapshot{
		ID:           snap.ID,
		Title:        snap.Title,
		Messages:     snap.Messages,
		SystemPrompt: snap.SystemPrompt,
	}
	if body.ID == "" {
		body.ID = core.NewConversationID
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/conversations", body)
	if err != nil {
		return "", err
	}
	var out struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	return out.ConversationID, nil
}

// Delete removes a conversation. Repeated deletes of the same id succeed.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/conversations/"+id, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}
