package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Flilipp/Chatbot/core"
)

// memoryStore implements ConversationStore using an in-memory map.
type memoryStore struct {
	mu      sync.RWMutex
	convs   map[string]*core.ConversationSnapshot
	savedAt map[string]time.Time
}

// NewMemoryStore creates an in-process ConversationStore. Listing order is
// most recently saved first.
func NewMemoryStore() ConversationStore {
	return &memoryStore{
		convs:   make(map[string]*core.ConversationSnapshot),
		savedAt: make(map[string]time.Time),
	}
}

func (s *memoryStore) List(ctx context.Context) ([]core.ConversationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.ConversationSummary, 0, len(s.convs))
	for id, conv := range s.convs {
		out = append(out, core.ConversationSummary{ID: id, Title: conv.Title})
	}
	sort.Slice(out, func(i, j int) bool {
		return s.savedAt[out[i].ID].After(s.savedAt[out[j].ID])
	})
	return out, nil
}

func (s *memoryStore) Load(ctx context.Context, id string) (*core.ConversationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.convs[id]
	if !exists {
		return nil, core.ErrNotFound
	}
	cp := *conv
	cp.Messages = append([]core.ChatMessage(nil), conv.Messages...)
	return &cp, nil
}

func (s *memoryStore) Save(ctx context.Context, snap *core.ConversationSnapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := snap.ID
	if id == "" || id == core.NewConversationID {
		id = uuid.New().String()
	}
	cp := *snap
	cp.ID = id
	cp.Messages = append([]core.ChatMessage(nil), snap.Messages...)
	s.convs[id] = &cp
	s.savedAt[id] = time.Now()
	return id, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.convs, id)
	delete(s.savedAt, id)
	return nil
}
