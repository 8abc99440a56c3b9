package core

// Kind distinguishes the two line item collections. Expense and income
// items never mix: each user has one ordered collection of each.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// IsValid reports whether k is one of the two known collections.
func (k Kind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}

type (
	// LineItem is one row of the expense or income table. Value is a
	// pointer because "not yet entered" is a distinct state from 0 and
	// must survive every layer unchanged.
	LineItem struct {
		ItemID    string   `json:"itemId"`
		Name      string   `json:"name"`
		Value     *float64 `json:"value,omitempty"`
		Note      string   `json:"note"`
		IsMonthly bool     `json:"isMonthly"`
		IsCustom  bool     `json:"isCustom"`
		Order     int      `json:"order"`
	}

	// Snapshot is the full calculator state for one user. Collections are
	// sorted by Order ascending. AnimalCount nil means never entered.
	Snapshot struct {
		AnimalCount   *float64   `json:"animalCount"`
		Expenses      []LineItem `json:"expenses"`
		Incomes       []LineItem `json:"incomes"`
		IsInitialized bool       `json:"isInitialized"`
	}
)

// EmptySnapshot is what unauthenticated readers get: no data, not an error.
func EmptySnapshot() Snapshot {
	return Snapshot{
		AnimalCount:   nil,
		Expenses:      []LineItem{},
		Incomes:       []LineItem{},
		IsInitialized: false,
	}
}

// Float64 returns a pointer to v. Convenience for optional values.
func Float64(v float64) *float64 {
	return &v
}

// ValueWrite is a single value assignment for one line item. A slice of
// writes is persisted atomically, so a yearly item and its derived monthly
// counterpart never diverge.
type ValueWrite struct {
	ItemID string
	Value  *float64
}
