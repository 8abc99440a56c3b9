package core

import (
	"math"
	"testing"
)

func item(kind Kind, itemID string, value *float64) LineItem {
	for _, it := range DefaultItems(kind) {
		if it.ItemID == itemID {
			it.Value = value
			return it
		}
	}
	return LineItem{ItemID: itemID, Value: value, IsMonthly: true, IsCustom: true}
}

func TestSummarize_ContributionRule(t *testing.T) {
	tests := []struct {
		name     string
		expenses []LineItem
		want     float64
	}{
		{
			name:     "empty collection",
			expenses: nil,
			want:     0,
		},
		{
			name:     "unset values contribute nothing",
			expenses: []LineItem{item(KindExpense, ExpenseFeed, nil)},
			want:     0,
		},
		{
			name:     "monthly item contributes its value",
			expenses: []LineItem{item(KindExpense, ExpenseFeed, Float64(1000))},
			want:     1000,
		},
		{
			name:     "yearly item contributes value over twelve",
			expenses: []LineItem{item(KindExpense, ExpenseEquipment, Float64(2400))},
			want:     200,
		},
		{
			name:     "zero is a set value, not unset",
			expenses: []LineItem{item(KindExpense, ExpenseFeed, Float64(0))},
			want:     0,
		},
		{
			name: "custom item counts as monthly",
			expenses: []LineItem{
				{ItemID: "custom-expense-1", Name: "Podestýlka", Value: Float64(150), IsMonthly: true, IsCustom: true, Order: 6},
			},
			want: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(Snapshot{Expenses: tt.expenses}).MonthlyExpenses
			if got != tt.want {
				t.Errorf("MonthlyExpenses = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize_NoDoubleCounting(t *testing.T) {
	// A yearly item and its derived monthly twin both set: only the
	// yearly one may contribute, via /12.
	snap := Snapshot{
		Expenses: []LineItem{
			item(KindExpense, ExpenseEquipment, Float64(2400)),
			item(KindExpense, ExpenseEquipmentMonthly, Float64(200)),
		},
	}
	if got := Summarize(snap).MonthlyExpenses; got != 200 {
		t.Errorf("MonthlyExpenses = %v, want 200 (derived twin must be excluded)", got)
	}

	snap = Snapshot{
		Incomes: []LineItem{
			item(KindIncome, IncomeAnimalsYearly, Float64(1200)),
			item(KindIncome, IncomeAnimalsMonthly, Float64(100)),
		},
	}
	if got := Summarize(snap).MonthlyIncome; got != 100 {
		t.Errorf("MonthlyIncome = %v, want 100 (derived twin must be excluded)", got)
	}
}

func TestSummarize_YearlyIsTwelveTimesMonthly(t *testing.T) {
	snaps := []Snapshot{
		{},
		{Expenses: []LineItem{item(KindExpense, ExpenseFeed, Float64(0))}},
		{
			Expenses: []LineItem{
				item(KindExpense, ExpenseFeed, Float64(999.99)),
				item(KindExpense, ExpenseEquipment, Float64(1234.5)),
			},
			Incomes: []LineItem{
				item(KindIncome, IncomeMeat, Float64(0.07)),
				item(KindIncome, IncomeEggsHatching, Float64(100)),
			},
		},
	}

	for _, snap := range snaps {
		sum := Summarize(snap)
		if sum.YearlyExpenses != sum.MonthlyExpenses*12 {
			t.Errorf("YearlyExpenses = %v, want exactly %v", sum.YearlyExpenses, sum.MonthlyExpenses*12)
		}
		if sum.YearlyIncome != sum.MonthlyIncome*12 {
			t.Errorf("YearlyIncome = %v, want exactly %v", sum.YearlyIncome, sum.MonthlyIncome*12)
		}
		if sum.YearlyProfit != sum.MonthlyProfit*12 {
			t.Errorf("YearlyProfit = %v, want exactly %v", sum.YearlyProfit, sum.MonthlyProfit*12)
		}
	}
}

func TestSummarize_PerAnimalPlaceholder(t *testing.T) {
	expenses := []LineItem{item(KindExpense, ExpenseFeed, Float64(1200))}

	tests := []struct {
		name  string
		count *float64
		want  *float64
	}{
		{name: "absent count", count: nil, want: nil},
		{name: "zero count", count: Float64(0), want: nil},
		{name: "positive count", count: Float64(10), want: Float64(120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Summarize(Snapshot{AnimalCount: tt.count, Expenses: expenses})
			if (sum.MonthlyPerAnimal == nil) != (tt.want == nil) {
				t.Fatalf("MonthlyPerAnimal = %v, want %v", sum.MonthlyPerAnimal, tt.want)
			}
			if tt.want != nil && *sum.MonthlyPerAnimal != *tt.want {
				t.Errorf("MonthlyPerAnimal = %v, want %v", *sum.MonthlyPerAnimal, *tt.want)
			}
			if (sum.YearlyPerAnimal == nil) != (tt.want == nil) {
				t.Errorf("YearlyPerAnimal = %v, want same presence as monthly", sum.YearlyPerAnimal)
			}
		})
	}
}

func TestSummarize_BreederScenario(t *testing.T) {
	// Feed 1000/month, equipment 2400/year, 10 animals.
	snap := Snapshot{
		Expenses: []LineItem{
			item(KindExpense, ExpenseFeed, Float64(1000)),
			item(KindExpense, ExpenseEquipment, Float64(2400)),
			item(KindExpense, ExpenseEquipmentMonthly, Float64(200)),
		},
	}

	sum := Summarize(snap)
	if sum.MonthlyExpenses != 1200 {
		t.Fatalf("MonthlyExpenses = %v, want 1200", sum.MonthlyExpenses)
	}

	snap.AnimalCount = Float64(10)
	sum = Summarize(snap)
	if sum.MonthlyPerAnimal == nil || *sum.MonthlyPerAnimal != 120 {
		t.Errorf("MonthlyPerAnimal = %v, want 120", sum.MonthlyPerAnimal)
	}
	if sum.YearlyPerAnimal == nil || *sum.YearlyPerAnimal != 1440 {
		t.Errorf("YearlyPerAnimal = %v, want 1440", sum.YearlyPerAnimal)
	}
}

func TestSummarize_ProfitSign(t *testing.T) {
	snap := Snapshot{
		Expenses: []LineItem{item(KindExpense, ExpenseFeed, Float64(500))},
		Incomes:  []LineItem{item(KindIncome, IncomeMeat, Float64(300))},
	}
	sum := Summarize(snap)
	if sum.MonthlyProfit != -200 {
		t.Errorf("MonthlyProfit = %v, want -200", sum.MonthlyProfit)
	}
}

func TestMonthlyCounterpart(t *testing.T) {
	tests := []struct {
		kind    Kind
		itemID  string
		want    string
		present bool
	}{
		{KindExpense, ExpenseEquipment, ExpenseEquipmentMonthly, true},
		{KindExpense, ExpenseAnimals, ExpenseAnimalsMonthly, true},
		{KindIncome, IncomeEggsHatching, IncomeEggsHatchingMonthly, true},
		{KindIncome, IncomeAnimalsYearly, IncomeAnimalsMonthly, true},
		{KindExpense, ExpenseFeed, "", false},
		// The derived twin itself is not a pairing key.
		{KindExpense, ExpenseEquipmentMonthly, "", false},
		{KindIncome, IncomeAnimalsMonthly, "", false},
		// Pairs belong to their own collection only.
		{KindIncome, ExpenseEquipment, "", false},
	}

	for _, tt := range tests {
		got, ok := MonthlyCounterpart(tt.kind, tt.itemID)
		if ok != tt.present || got != tt.want {
			t.Errorf("MonthlyCounterpart(%s, %s) = (%q, %v), want (%q, %v)",
				tt.kind, tt.itemID, got, ok, tt.want, tt.present)
		}
	}
}

func TestSummarize_DerivedTwelfthIsExact(t *testing.T) {
	// 100/12 is not representable exactly; the twin is stored as the
	// floating-point quotient and the sum must equal that same quotient.
	value := 100.0
	derived := value / 12
	snap := Snapshot{
		Incomes: []LineItem{
			item(KindIncome, IncomeEggsHatching, Float64(value)),
			item(KindIncome, IncomeEggsHatchingMonthly, Float64(derived)),
		},
	}
	got := Summarize(snap).MonthlyIncome
	if got != derived {
		t.Errorf("MonthlyIncome = %v, want %v (diff %g)", got, derived, math.Abs(got-derived))
	}
}
