package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chovatel/internal/auth"
	"chovatel/internal/core"
)

var (
	// ErrItemNotFound means the user has no item with that id in the kind.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotCustom marks rename/delete attempts on predefined items.
	ErrNotCustom = errors.New("only custom items can be renamed or deleted")
)

// CalculatorService orchestrates calculator operations on top of the store.
// All mutations require a signed-in user; reads degrade to an empty snapshot
// for anonymous callers.
type CalculatorService struct {
	store Store
}

func NewCalculatorService(store Store) *CalculatorService {
	return &CalculatorService{store: store}
}

// GetSnapshot returns the caller's calculator state. Anonymous callers get
// an empty snapshot, never an error.
func (s *CalculatorService) GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	if userID == "" {
		return core.EmptySnapshot(), nil
	}
	snap, err := s.store.GetSnapshot(ctx, userID)
	if err != nil {
		return core.EmptySnapshot(), fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// Initialize seeds the default expense and income rows. Calling it again is
// a no-op and reports created=false.
func (s *CalculatorService) Initialize(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, auth.ErrNotAuthenticated
	}
	created, err := s.store.Initialize(ctx, userID,
		core.DefaultItems(core.KindExpense), core.DefaultItems(core.KindIncome))
	if err != nil {
		return false, fmt.Errorf("initialize calculator: %w", err)
	}
	return created, nil
}

// SaveAnimalCount stores the herd size. nil clears it; zero is stored as
// zero and suppresses per-animal figures downstream.
func (s *CalculatorService) SaveAnimalCount(ctx context.Context, userID string, count *float64) error {
	if userID == "" {
		return auth.ErrNotAuthenticated
	}
	if err := core.ValidateValue("animalCount", count); err != nil {
		return err
	}
	if err := s.store.UpsertAnimalCount(ctx, userID, count); err != nil {
		return fmt.Errorf("save animal count: %w", err)
	}
	return nil
}

// UpdateValue sets the amount on one item. Yearly items propagate to their
// monthly twin (value/12) in the same store transaction; the twins themselves
// are never valid targets.
func (s *CalculatorService) UpdateValue(ctx context.Context, userID string, kind core.Kind, itemID string, value *float64) error {
	if userID == "" {
		return auth.ErrNotAuthenticated
	}
	if !kind.IsValid() {
		return core.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	if core.IsDerivedMonthly(kind, itemID) {
		return core.NewValidationError("itemId", "derived monthly items are updated automatically")
	}
	if err := core.ValidateValue("value", value); err != nil {
		return err
	}

	writes := []core.ValueWrite{{ItemID: itemID, Value: value}}
	if monthlyID, ok := core.MonthlyCounterpart(kind, itemID); ok {
		var monthly *float64
		if value != nil {
			monthly = core.Float64(*value / 12)
		}
		writes = append(writes, core.ValueWrite{ItemID: monthlyID, Value: monthly})
	}

	found, err := s.store.UpdateValues(ctx, userID, kind, writes)
	if err != nil {
		return fmt.Errorf("update value: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}

	slog.InfoContext(ctx, "Item value updated",
		"user_id", userID,
		"kind", string(kind),
		"item_id", itemID,
		"writes", len(writes))

	return nil
}

// UpdateNote sets the free-text annotation on any item.
func (s *CalculatorService) UpdateNote(ctx context.Context, userID string, kind core.Kind, itemID, note string) error {
	if userID == "" {
		return auth.ErrNotAuthenticated
	}
	if !kind.IsValid() {
		return core.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	if err := core.ValidateNote(note); err != nil {
		return err
	}

	found, err := s.store.UpdateNote(ctx, userID, kind, itemID, note)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}
	return nil
}

// Rename changes the display name of a custom item. Predefined items keep
// their shipped names.
func (s *CalculatorService) Rename(ctx context.Context, userID string, kind core.Kind, itemID, name string) error {
	if userID == "" {
		return auth.ErrNotAuthenticated
	}
	if !kind.IsValid() {
		return core.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	if err := core.ValidateName(name); err != nil {
		return err
	}

	item, err := s.store.GetItem(ctx, userID, kind, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return ErrItemNotFound
	}
	if !item.IsCustom {
		return ErrNotCustom
	}

	if _, err := s.store.Rename(ctx, userID, kind, itemID, name); err != nil {
		return fmt.Errorf("rename item: %w", err)
	}
	return nil
}

// AddCustom appends a user-defined monthly item at the end of the collection.
func (s *CalculatorService) AddCustom(ctx context.Context, userID string, kind core.Kind, name string) (core.LineItem, error) {
	if userID == "" {
		return core.LineItem{}, auth.ErrNotAuthenticated
	}
	if !kind.IsValid() {
		return core.LineItem{}, core.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	if err := core.ValidateName(name); err != nil {
		return core.LineItem{}, err
	}

	maxSuffix, maxOrder, err := s.store.ItemStats(ctx, userID, kind)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("item stats: %w", err)
	}

	item := core.LineItem{
		ItemID:    core.CustomItemID(kind, maxSuffix+1),
		Name:      name,
		IsMonthly: true,
		IsCustom:  true,
		Order:     maxOrder + 1,
	}
	if err := s.store.InsertItem(ctx, userID, kind, item); err != nil {
		return core.LineItem{}, fmt.Errorf("insert item: %w", err)
	}

	slog.InfoContext(ctx, "Custom item added",
		"user_id", userID,
		"kind", string(kind),
		"item_id", item.ItemID)

	return item, nil
}

// Delete removes a custom item. Predefined items cannot be deleted.
func (s *CalculatorService) Delete(ctx context.Context, userID string, kind core.Kind, itemID string) error {
	if userID == "" {
		return auth.ErrNotAuthenticated
	}
	if !kind.IsValid() {
		return core.NewValidationError("kind", fmt.Sprintf("unknown kind %q", kind))
	}

	item, err := s.store.GetItem(ctx, userID, kind, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return ErrItemNotFound
	}
	if !item.IsCustom {
		return ErrNotCustom
	}

	if _, err := s.store.DeleteItem(ctx, userID, kind, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	slog.InfoContext(ctx, "Custom item deleted",
		"user_id", userID,
		"kind", string(kind),
		"item_id", itemID)

	return nil
}
