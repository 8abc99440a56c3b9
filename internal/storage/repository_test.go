package storage

import (
	"context"
	"path/filepath"
	"testing"

	"chovatel/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "chovatel.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func initUser(t *testing.T, repo *SQLiteRepository, userID string) {
	t.Helper()
	created, err := repo.Initialize(context.Background(), userID,
		core.DefaultItems(core.KindExpense), core.DefaultItems(core.KindIncome))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !created {
		t.Fatalf("Initialize() = false, want true for new user")
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	initUser(t, repo, "user-1")

	created, err := repo.Initialize(ctx, "user-1",
		core.DefaultItems(core.KindExpense), core.DefaultItems(core.KindIncome))
	if err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if created {
		t.Errorf("second Initialize() = true, want false")
	}

	snap, err := repo.GetSnapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got, want := len(snap.Expenses), len(core.DefaultItems(core.KindExpense)); got != want {
		t.Errorf("expenses = %d items, want %d", got, want)
	}
	if got, want := len(snap.Incomes), len(core.DefaultItems(core.KindIncome)); got != want {
		t.Errorf("incomes = %d items, want %d", got, want)
	}
	if !snap.IsInitialized {
		t.Errorf("IsInitialized = false, want true")
	}
}

func TestInitializeAfterAnimalCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertAnimalCount(ctx, "user-1", core.Float64(12)); err != nil {
		t.Fatalf("UpsertAnimalCount() error = %v", err)
	}

	// Saving the count first must not block the default seeding.
	initUser(t, repo, "user-1")

	snap, err := repo.GetSnapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if snap.AnimalCount == nil || *snap.AnimalCount != 12 {
		t.Errorf("AnimalCount = %v, want 12", snap.AnimalCount)
	}
	if len(snap.Expenses) == 0 {
		t.Errorf("expenses empty after initialize")
	}
}

func TestGetSnapshotUnknownUser(t *testing.T) {
	repo := newTestRepo(t)

	snap, err := repo.GetSnapshot(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if snap.IsInitialized {
		t.Errorf("IsInitialized = true for unknown user")
	}
	if snap.AnimalCount != nil {
		t.Errorf("AnimalCount = %v, want nil", snap.AnimalCount)
	}
	if len(snap.Expenses) != 0 || len(snap.Incomes) != 0 {
		t.Errorf("collections not empty for unknown user")
	}
}

func TestUpsertAnimalCountClears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertAnimalCount(ctx, "user-1", core.Float64(7)); err != nil {
		t.Fatalf("UpsertAnimalCount() error = %v", err)
	}
	if err := repo.UpsertAnimalCount(ctx, "user-1", nil); err != nil {
		t.Fatalf("UpsertAnimalCount(nil) error = %v", err)
	}

	snap, err := repo.GetSnapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if snap.AnimalCount != nil {
		t.Errorf("AnimalCount = %v, want nil after clearing", *snap.AnimalCount)
	}
}

func TestUpdateValuesWritesPairAtomically(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	writes := []core.ValueWrite{
		{ItemID: core.ExpenseEquipment, Value: core.Float64(2400)},
		{ItemID: core.ExpenseEquipmentMonthly, Value: core.Float64(200)},
	}
	ok, err := repo.UpdateValues(ctx, "user-1", core.KindExpense, writes)
	if err != nil {
		t.Fatalf("UpdateValues() error = %v", err)
	}
	if !ok {
		t.Fatalf("UpdateValues() = false, want true")
	}

	yearly, err := repo.GetItem(ctx, "user-1", core.KindExpense, core.ExpenseEquipment)
	if err != nil {
		t.Fatalf("GetItem(equipment) error = %v", err)
	}
	monthly, err := repo.GetItem(ctx, "user-1", core.KindExpense, core.ExpenseEquipmentMonthly)
	if err != nil {
		t.Fatalf("GetItem(equipment-monthly) error = %v", err)
	}
	if yearly.Value == nil || *yearly.Value != 2400 {
		t.Errorf("equipment value = %v, want 2400", yearly.Value)
	}
	if monthly.Value == nil || *monthly.Value != 200 {
		t.Errorf("equipment-monthly value = %v, want 200", monthly.Value)
	}
}

func TestUpdateValuesMissingTarget(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	ok, err := repo.UpdateValues(ctx, "user-1", core.KindExpense,
		[]core.ValueWrite{{ItemID: "no-such-item", Value: core.Float64(1)}})
	if err != nil {
		t.Fatalf("UpdateValues() error = %v", err)
	}
	if ok {
		t.Errorf("UpdateValues() = true for missing item, want false")
	}
}

func TestUpdateValuesClearsValue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	if _, err := repo.UpdateValues(ctx, "user-1", core.KindExpense,
		[]core.ValueWrite{{ItemID: core.ExpenseFeed, Value: core.Float64(500)}}); err != nil {
		t.Fatalf("UpdateValues() error = %v", err)
	}
	if _, err := repo.UpdateValues(ctx, "user-1", core.KindExpense,
		[]core.ValueWrite{{ItemID: core.ExpenseFeed, Value: nil}}); err != nil {
		t.Fatalf("UpdateValues(nil) error = %v", err)
	}

	it, err := repo.GetItem(ctx, "user-1", core.KindExpense, core.ExpenseFeed)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if it.Value != nil {
		t.Errorf("value = %v, want nil after clearing", *it.Value)
	}
}

func TestNoteAndRename(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	ok, err := repo.UpdateNote(ctx, "user-1", core.KindExpense, core.ExpenseVet, "vakcinace na jaře")
	if err != nil || !ok {
		t.Fatalf("UpdateNote() = %v, %v, want true, nil", ok, err)
	}
	ok, err = repo.Rename(ctx, "user-1", core.KindIncome, core.IncomeMeat, "Prodej masa")
	if err != nil || !ok {
		t.Fatalf("Rename() = %v, %v, want true, nil", ok, err)
	}

	it, err := repo.GetItem(ctx, "user-1", core.KindExpense, core.ExpenseVet)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if it.Note != "vakcinace na jaře" {
		t.Errorf("note = %q", it.Note)
	}

	ok, err = repo.UpdateNote(ctx, "user-1", core.KindExpense, "missing", "x")
	if err != nil {
		t.Fatalf("UpdateNote(missing) error = %v", err)
	}
	if ok {
		t.Errorf("UpdateNote(missing) = true, want false")
	}
}

func TestInsertDeleteAndStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	maxSuffix, maxOrder, err := repo.ItemStats(ctx, "user-1", core.KindExpense)
	if err != nil {
		t.Fatalf("ItemStats() error = %v", err)
	}
	if maxSuffix != 0 {
		t.Errorf("maxSuffix = %d, want 0", maxSuffix)
	}
	wantMax := len(core.DefaultItems(core.KindExpense)) - 1
	if maxOrder != wantMax {
		t.Errorf("maxOrder = %d, want %d", maxOrder, wantMax)
	}

	item := core.LineItem{
		ItemID:    core.CustomItemID(core.KindExpense, 1),
		Name:      "Podestýlka",
		IsMonthly: true,
		IsCustom:  true,
		Order:     maxOrder + 1,
	}
	if err := repo.InsertItem(ctx, "user-1", core.KindExpense, item); err != nil {
		t.Fatalf("InsertItem() error = %v", err)
	}

	maxSuffix, maxOrder, err = repo.ItemStats(ctx, "user-1", core.KindExpense)
	if err != nil {
		t.Fatalf("ItemStats() error = %v", err)
	}
	if maxSuffix != 1 {
		t.Errorf("maxSuffix = %d, want 1", maxSuffix)
	}
	if maxOrder != item.Order {
		t.Errorf("maxOrder = %d, want %d", maxOrder, item.Order)
	}

	ok, err := repo.DeleteItem(ctx, "user-1", core.KindExpense, item.ItemID)
	if err != nil || !ok {
		t.Fatalf("DeleteItem() = %v, %v, want true, nil", ok, err)
	}
	ok, err = repo.DeleteItem(ctx, "user-1", core.KindExpense, item.ItemID)
	if err != nil {
		t.Fatalf("second DeleteItem() error = %v", err)
	}
	if ok {
		t.Errorf("second DeleteItem() = true, want false")
	}
}

func TestItemStatsSkipsDeletedSuffixes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	initUser(t, repo, "user-1")

	_, maxOrder, err := repo.ItemStats(ctx, "user-1", core.KindExpense)
	if err != nil {
		t.Fatalf("ItemStats() error = %v", err)
	}
	for n := 1; n <= 2; n++ {
		item := core.LineItem{
			ItemID:    core.CustomItemID(core.KindExpense, n),
			Name:      "Položka",
			IsMonthly: true,
			IsCustom:  true,
			Order:     maxOrder + n,
		}
		if err := repo.InsertItem(ctx, "user-1", core.KindExpense, item); err != nil {
			t.Fatalf("InsertItem(%d) error = %v", n, err)
		}
	}

	// Removing the lower suffix must not let its id be handed out again
	// while the higher one still occupies the unique (user_id, item_id) slot.
	ok, err := repo.DeleteItem(ctx, "user-1", core.KindExpense, core.CustomItemID(core.KindExpense, 1))
	if err != nil || !ok {
		t.Fatalf("DeleteItem() = %v, %v, want true, nil", ok, err)
	}

	maxSuffix, maxOrder, err := repo.ItemStats(ctx, "user-1", core.KindExpense)
	if err != nil {
		t.Fatalf("ItemStats() error = %v", err)
	}
	if maxSuffix != 2 {
		t.Errorf("maxSuffix = %d, want 2", maxSuffix)
	}

	next := core.LineItem{
		ItemID:    core.CustomItemID(core.KindExpense, maxSuffix+1),
		Name:      "Doprava",
		IsMonthly: true,
		IsCustom:  true,
		Order:     maxOrder + 1,
	}
	if err := repo.InsertItem(ctx, "user-1", core.KindExpense, next); err != nil {
		t.Fatalf("InsertItem(after delete) error = %v", err)
	}
	if next.ItemID != "custom-expense-3" {
		t.Errorf("next custom id = %q, want custom-expense-3", next.ItemID)
	}
}

func TestItemStatsEmptyUser(t *testing.T) {
	repo := newTestRepo(t)

	maxSuffix, maxOrder, err := repo.ItemStats(context.Background(), "nobody", core.KindIncome)
	if err != nil {
		t.Fatalf("ItemStats() error = %v", err)
	}
	if maxSuffix != 0 || maxOrder != -1 {
		t.Errorf("ItemStats() = %d, %d, want 0, -1", maxSuffix, maxOrder)
	}
}
