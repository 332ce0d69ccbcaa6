// Package store defines the conversation persistence contract. The primary
// implementation talks to the remote HTTP directory (services/backend); a
// Redis-backed implementation and an in-memory implementation are available
// for self-hosted and test setups.
package store

import (
	"context"

	"github.com/Flilipp/Chatbot/core"
)

// ConversationStore persists whole-conversation snapshots.
//
// Save with the "new" sentinel id allocates a fresh identifier and returns
// it; any other id performs an upsert. Load of an unknown id fails with
// core.ErrNotFound. Delete is idempotent on repeat.
type ConversationStore interface {
	List(ctx context.Context) ([]core.ConversationSummary, error)
	Load(ctx context.Context, id string) (*core.ConversationSnapshot, error)
	Save(ctx context.Context, snap *core.ConversationSnapshot) (string, error)
	Delete(ctx context.Context, id string) error
}
