// Package memory provides an in-memory calculator store used by tests and
// local development. It mirrors the SQLite repository's semantics exactly,
// including the atomicity of multi-item value writes.
package memory

import (
	"context"
	"fmt"
	"sync"

	"chovatel/internal/core"
)

type userData struct {
	initialized bool
	animalCount *float64
	items       map[core.Kind][]core.LineItem
}

type Store struct {
	mu    sync.RWMutex
	users map[string]*userData
}

func NewStore() *Store {
	return &Store{users: make(map[string]*userData)}
}

func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{items: map[core.Kind][]core.LineItem{
			core.KindExpense: {},
			core.KindIncome:  {},
		}}
		s.users[userID] = u
	}
	return u
}

func cloneItems(items []core.LineItem) []core.LineItem {
	out := make([]core.LineItem, len(items))
	for i, it := range items {
		if it.Value != nil {
			it.Value = core.Float64(*it.Value)
		}
		out[i] = it
	}
	return out
}

func (s *Store) GetSnapshot(_ context.Context, userID string) (core.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return core.EmptySnapshot(), nil
	}
	snap := core.Snapshot{
		Expenses:      cloneItems(u.items[core.KindExpense]),
		Incomes:       cloneItems(u.items[core.KindIncome]),
		IsInitialized: u.initialized,
	}
	if u.animalCount != nil {
		snap.AnimalCount = core.Float64(*u.animalCount)
	}
	return snap, nil
}

func (s *Store) Initialize(_ context.Context, userID string, expenses, incomes []core.LineItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	if len(u.items[core.KindExpense]) > 0 {
		return false, nil
	}
	u.initialized = true
	u.items[core.KindExpense] = cloneItems(expenses)
	u.items[core.KindIncome] = cloneItems(incomes)
	return true, nil
}

func (s *Store) UpsertAnimalCount(_ context.Context, userID string, count *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.initialized = true
	if count == nil {
		u.animalCount = nil
	} else {
		u.animalCount = core.Float64(*count)
	}
	return nil
}

func (s *Store) GetItem(_ context.Context, userID string, kind core.Kind, itemID string) (*core.LineItem, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown item kind: %q", kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	for _, it := range u.items[kind] {
		if it.ItemID == itemID {
			c := it
			if c.Value != nil {
				c.Value = core.Float64(*c.Value)
			}
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateValues(_ context.Context, userID string, kind core.Kind, writes []core.ValueWrite) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("unknown item kind: %q", kind)
	}
	if len(writes) == 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	items := u.items[kind]

	find := func(itemID string) int {
		for i := range items {
			if items[i].ItemID == itemID {
				return i
			}
		}
		return -1
	}
	if find(writes[0].ItemID) < 0 {
		return false, nil
	}
	for _, w := range writes {
		i := find(w.ItemID)
		if i < 0 {
			continue
		}
		if w.Value == nil {
			items[i].Value = nil
		} else {
			items[i].Value = core.Float64(*w.Value)
		}
	}
	return true, nil
}

func (s *Store) UpdateNote(_ context.Context, userID string, kind core.Kind, itemID, note string) (bool, error) {
	return s.mutate(userID, kind, itemID, func(it *core.LineItem) { it.Note = note })
}

func (s *Store) Rename(_ context.Context, userID string, kind core.Kind, itemID, name string) (bool, error) {
	return s.mutate(userID, kind, itemID, func(it *core.LineItem) { it.Name = name })
}

func (s *Store) mutate(userID string, kind core.Kind, itemID string, fn func(*core.LineItem)) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("unknown item kind: %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	items := u.items[kind]
	for i := range items {
		if items[i].ItemID == itemID {
			fn(&items[i])
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertItem(_ context.Context, userID string, kind core.Kind, item core.LineItem) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown item kind: %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	// Same uniqueness the SQLite schema enforces with UNIQUE (user_id, item_id).
	for _, it := range u.items[kind] {
		if it.ItemID == item.ItemID {
			return fmt.Errorf("item %q already exists", item.ItemID)
		}
	}
	if item.Value != nil {
		item.Value = core.Float64(*item.Value)
	}
	u.items[kind] = append(u.items[kind], item)
	return nil
}

func (s *Store) DeleteItem(_ context.Context, userID string, kind core.Kind, itemID string) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("unknown item kind: %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	items := u.items[kind]
	for i := range items {
		if items[i].ItemID == itemID {
			u.items[kind] = append(items[:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ItemStats(_ context.Context, userID string, kind core.Kind) (maxCustomSuffix, maxOrder int, err error) {
	if !kind.IsValid() {
		return 0, 0, fmt.Errorf("unknown item kind: %q", kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	maxOrder = -1
	u, ok := s.users[userID]
	if !ok {
		return 0, maxOrder, nil
	}
	for _, it := range u.items[kind] {
		if it.IsCustom {
			if n, ok := core.CustomItemSuffix(kind, it.ItemID); ok && n > maxCustomSuffix {
				maxCustomSuffix = n
			}
		}
		if it.Order > maxOrder {
			maxOrder = it.Order
		}
	}
	return maxCustomSuffix, maxOrder, nil
}
