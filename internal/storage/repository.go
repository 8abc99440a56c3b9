package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"chovatel/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists calculator state. Expense and income items live
// in separate tables with identical shape; itemTable maps the kind.
type SQLiteRepository struct {
	db *sql.DB
}

var itemTable = map[core.Kind]string{
	core.KindExpense: "expense_items",
	core.KindIncome:  "income_items",
}

func tableFor(kind core.Kind) (string, error) {
	t, ok := itemTable[kind]
	if !ok {
		return "", fmt.Errorf("unknown item kind: %q", kind)
	}
	return t, nil
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const itemColumns = "item_id, name, value, note, is_monthly, is_custom, sort_order"

func scanItems(rows *sql.Rows) ([]core.LineItem, error) {
	items := []core.LineItem{}
	for rows.Next() {
		var it core.LineItem
		var value sql.NullFloat64
		if err := rows.Scan(&it.ItemID, &it.Name, &value, &it.Note, &it.IsMonthly, &it.IsCustom, &it.Order); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if value.Valid {
			it.Value = core.Float64(value.Float64)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullValue(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// GetSnapshot returns the full calculator state for one user. A user with
// no calculator_data row has never initialized: empty collections, nil count.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, userID string) (core.Snapshot, error) {
	snap := core.EmptySnapshot()

	var count sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT animal_count FROM calculator_data WHERE user_id = ?", userID).Scan(&count)
	switch {
	case err == sql.ErrNoRows:
		return snap, nil
	case err != nil:
		return snap, fmt.Errorf("get calculator data: %w", err)
	}

	snap.IsInitialized = true
	if count.Valid {
		snap.AnimalCount = core.Float64(count.Float64)
	}

	for _, kind := range []core.Kind{core.KindExpense, core.KindIncome} {
		table := itemTable[kind]
		rows, err := r.db.QueryContext(ctx,
			"SELECT "+itemColumns+" FROM "+table+" WHERE user_id = ? ORDER BY sort_order ASC", userID)
		if err != nil {
			return snap, fmt.Errorf("list %s: %w", table, err)
		}
		items, err := scanItems(rows)
		rows.Close()
		if err != nil {
			return snap, fmt.Errorf("list %s: %w", table, err)
		}
		if kind == core.KindExpense {
			snap.Expenses = items
		} else {
			snap.Incomes = items
		}
	}

	return snap, nil
}

// Initialize seeds the default collections for a user. Returns false without
// touching anything when the user is already initialized.
func (r *SQLiteRepository) Initialize(ctx context.Context, userID string, expenses, incomes []core.LineItem) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The animal count may have been saved before the first initialize, so
	// row presence in calculator_data does not mean the defaults exist yet.
	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_items WHERE user_id = ?", userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing items: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO calculator_data (user_id, animal_count) VALUES (?, NULL) ON CONFLICT (user_id) DO NOTHING",
		userID); err != nil {
		return false, fmt.Errorf("insert calculator data: %w", err)
	}

	insert := func(table string, items []core.LineItem) error {
		for _, it := range items {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (user_id, "+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				userID, it.ItemID, it.Name, nullValue(it.Value), it.Note, it.IsMonthly, it.IsCustom, it.Order)
			if err != nil {
				return fmt.Errorf("insert into %s: %w", table, err)
			}
		}
		return nil
	}
	if err := insert("expense_items", expenses); err != nil {
		return false, err
	}
	if err := insert("income_items", incomes); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}

	slog.InfoContext(ctx, "Calculator initialized",
		"user_id", userID,
		"expense_items", len(expenses),
		"income_items", len(incomes))

	return true, nil
}

// UpsertAnimalCount stores the herd size. The calculator_data row is created
// lazily so the count can be set before Initialize.
func (r *SQLiteRepository) UpsertAnimalCount(ctx context.Context, userID string, count *float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calculator_data (user_id, animal_count) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			animal_count = excluded.animal_count,
			updated_at = CURRENT_TIMESTAMP`,
		userID, nullValue(count))
	if err != nil {
		return fmt.Errorf("upsert animal count: %w", err)
	}
	return nil
}

// GetItem returns one line item, or nil when the user has no such item.
func (r *SQLiteRepository) GetItem(ctx context.Context, userID string, kind core.Kind, itemID string) (*core.LineItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var it core.LineItem
	var value sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM "+table+" WHERE user_id = ? AND item_id = ?",
		userID, itemID).Scan(&it.ItemID, &it.Name, &value, &it.Note, &it.IsMonthly, &it.IsCustom, &it.Order)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get item: %w", err)
	}
	if value.Valid {
		it.Value = core.Float64(value.Float64)
	}
	return &it, nil
}

// UpdateValues applies all writes in one transaction. The first write is the
// user's target item and must match an existing row; the rest are derived
// counterparts and are applied best effort within the same transaction.
// Returns false when the target item does not exist.
func (r *SQLiteRepository) UpdateValues(ctx context.Context, userID string, kind core.Kind, writes []core.ValueWrite) (bool, error) {
	if len(writes) == 0 {
		return false, nil
	}
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, w := range writes {
		res, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND item_id = ?",
			nullValue(w.Value), userID, w.ItemID)
		if err != nil {
			return false, fmt.Errorf("update value: %w", err)
		}
		if i == 0 {
			affected, err := res.RowsAffected()
			if err != nil {
				return false, fmt.Errorf("rows affected: %w", err)
			}
			if affected == 0 {
				return false, nil
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// UpdateNote replaces the note on one item. Returns false when the item
// does not exist.
func (r *SQLiteRepository) UpdateNote(ctx context.Context, userID string, kind core.Kind, itemID, note string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE "+table+" SET note = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND item_id = ?",
		note, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Rename replaces the display name on one item. Returns false when the item
// does not exist.
func (r *SQLiteRepository) Rename(ctx context.Context, userID string, kind core.Kind, itemID, name string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE "+table+" SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND item_id = ?",
		name, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("rename item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// InsertItem appends a new row to the user's collection.
func (r *SQLiteRepository) InsertItem(ctx context.Context, userID string, kind core.Kind, item core.LineItem) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id, "+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		userID, item.ItemID, item.Name, nullValue(item.Value), item.Note, item.IsMonthly, item.IsCustom, item.Order)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	slog.InfoContext(ctx, "Item added",
		"user_id", userID,
		"kind", string(kind),
		"item_id", item.ItemID)

	return nil
}

// DeleteItem removes one row. Returns false when the item does not exist.
func (r *SQLiteRepository) DeleteItem(ctx context.Context, userID string, kind core.Kind, itemID string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE user_id = ? AND item_id = ?", userID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ItemStats returns the highest numeric suffix among the user's custom item
// ids and the highest sort order in one collection. The next custom id is
// maxCustomSuffix+1, which cannot collide with the UNIQUE (user_id, item_id)
// constraint no matter which items were deleted in between. maxCustomSuffix
// is 0 when no custom item exists; maxOrder is -1 for an empty collection.
func (r *SQLiteRepository) ItemStats(ctx context.Context, userID string, kind core.Kind) (maxCustomSuffix, maxOrder int, err error) {
	table, terr := tableFor(kind)
	if terr != nil {
		return 0, 0, terr
	}
	// substr offset is 1-based and starts right after "custom-<kind>-".
	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CASE WHEN is_custom THEN CAST(substr(item_id, ?) AS INTEGER) END), 0), COALESCE(MAX(sort_order), -1) FROM "+table+" WHERE user_id = ?",
		len(core.CustomItemPrefix(kind))+1, userID).Scan(&maxCustomSuffix, &maxOrder)
	if err != nil {
		return 0, 0, fmt.Errorf("item stats: %w", err)
	}
	return maxCustomSuffix, maxOrder, nil
}
