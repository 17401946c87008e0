package draft

import (
	"context"
	"sync"

	"saubio/models"
)

// MemoryStore is an in-process Store for local development and tests.
// It stores encoded bytes so it goes through the same codec as RedisStore.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, scope string) (*models.PlannerDraft, bool) {
	s.mu.Lock()
	data, ok := s.items[key(scope)]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return Decode(data)
}

func (s *MemoryStore) Save(_ context.Context, scope string, d models.PlannerDraft) {
	data, err := Encode(d)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.items[key(scope)] = data
	s.mu.Unlock()
}

func (s *MemoryStore) Clear(_ context.Context, scope string) {
	s.mu.Lock()
	delete(s.items, key(scope))
	s.mu.Unlock()
}

// Put stores raw bytes under scope, bypassing the codec.
func (s *MemoryStore) Put(scope string, data []byte) {
	s.mu.Lock()
	s.items[key(scope)] = data
	s.mu.Unlock()
}

var _ Store = (*MemoryStore)(nil)
