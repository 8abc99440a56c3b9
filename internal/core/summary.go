package core

// Summary holds the derived figures for one snapshot. They are computed
// on every read and never stored. Per-animal figures are nil unless the
// animal count is a positive number.
type Summary struct {
	MonthlyExpenses  float64  `json:"monthlyExpenses"`
	YearlyExpenses   float64  `json:"yearlyExpenses"`
	MonthlyIncome    float64  `json:"monthlyIncome"`
	YearlyIncome     float64  `json:"yearlyIncome"`
	MonthlyProfit    float64  `json:"monthlyProfit"`
	YearlyProfit     float64  `json:"yearlyProfit"`
	MonthlyPerAnimal *float64 `json:"monthlyPerAnimal,omitempty"`
	YearlyPerAnimal  *float64 `json:"yearlyPerAnimal,omitempty"`
}

// Summarize computes the summary figures from the current item set.
// Pure and total: unset values contribute nothing, a missing or zero
// animal count yields nil per-animal figures, never an error.
//
// The yearly figures are derived by multiplication from the monthly
// totals rather than summed independently, so yearly == monthly*12
// holds exactly for every input.
func Summarize(s Snapshot) Summary {
	monthlyExpenses := monthlyTotal(KindExpense, s.Expenses)
	monthlyIncome := monthlyTotal(KindIncome, s.Incomes)

	sum := Summary{
		MonthlyExpenses: monthlyExpenses,
		YearlyExpenses:  monthlyExpenses * 12,
		MonthlyIncome:   monthlyIncome,
		YearlyIncome:    monthlyIncome * 12,
		MonthlyProfit:   monthlyIncome - monthlyExpenses,
		YearlyProfit:    (monthlyIncome - monthlyExpenses) * 12,
	}

	if s.AnimalCount != nil && *s.AnimalCount > 0 {
		monthlyPer := monthlyExpenses / *s.AnimalCount
		yearlyPer := monthlyExpenses * 12 / *s.AnimalCount
		sum.MonthlyPerAnimal = &monthlyPer
		sum.YearlyPerAnimal = &yearlyPer
	}

	return sum
}

// monthlyTotal sums one collection per the contribution rule: unset
// values and auto-derived monthly twins contribute 0 (the yearly sibling
// already contributes its value/12), monthly items contribute their
// value, yearly items contribute value/12.
func monthlyTotal(kind Kind, items []LineItem) float64 {
	var total float64
	for _, it := range items {
		switch {
		case it.Value == nil:
		case IsDerivedMonthly(kind, it.ItemID):
		case it.IsMonthly:
			total += *it.Value
		default:
			total += *it.Value / 12
		}
	}
	return total
}
