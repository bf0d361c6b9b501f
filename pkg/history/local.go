package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/kv"

	"github.com/google/uuid"
)

const (
	LocalKey      = "nichelens_history_v1"
	LocalCapacity = 30
)

// LocalStore keeps the anonymous on-device history as one capped JSON list.
type LocalStore struct {
	kv  kv.Store
	now func() time.Time
	mu  sync.Mutex
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(store kv.Store) *LocalStore {
	return &LocalStore{kv: store, now: time.Now}
}

func (s *LocalStore) Append(ctx context.Context, mode analysis.Mode, input string, result analysis.Result) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UnixMilli(),
		Mode:      mode,
		Input:     input,
		Result:    result,
	}

	items = append([]Item{item}, items...)
	if len(items) > LocalCapacity {
		items = items[:LocalCapacity]
	}

	if err := s.save(ctx, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *LocalStore) List(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *LocalStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

func (s *LocalStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, LocalKey)
}

func (s *LocalStore) load(ctx context.Context) ([]Item, error) {
	raw, ok, err := s.kv.Get(ctx, LocalKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode local history: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *LocalStore) save(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode local history: %w", err)
	}
	return s.kv.Set(ctx, LocalKey, raw)
}
