package core

import (
	"strconv"
	"strings"
)

// Fixed itemIds of the predefined rows. Yearly items carry an annual
// amount; their "-monthly" twins are auto-derived (value/12) and never
// directly editable.
const (
	ExpenseFeed             = "feed"
	ExpenseEquipment        = "equipment"
	ExpenseEquipmentMonthly = "equipment-monthly"
	ExpenseVet              = "vet"
	ExpenseAnimals          = "animals"
	ExpenseAnimalsMonthly   = "animals-monthly"

	IncomeMeat                = "meat"
	IncomeEggsConsumption     = "eggs-consumption"
	IncomeEggsHatching        = "eggs-hatching"
	IncomeEggsHatchingMonthly = "eggs-hatching-monthly"
	IncomeAnimalsYearly       = "animals-yearly"
	IncomeAnimalsMonthly      = "animals-monthly"
	IncomeOther               = "other-income"
	IncomeSubsidies           = "subsidies"
)

// yearlyToMonthly maps a yearly item to the monthly twin it drives.
// Writing the yearly member always rewrites the monthly member with
// value/12 in the same transaction.
var yearlyToMonthly = map[Kind]map[string]string{
	KindExpense: {
		ExpenseEquipment: ExpenseEquipmentMonthly,
		ExpenseAnimals:   ExpenseAnimalsMonthly,
	},
	KindIncome: {
		IncomeEggsHatching:  IncomeEggsHatchingMonthly,
		IncomeAnimalsYearly: IncomeAnimalsMonthly,
	},
}

// derivedMonthly holds the monthly twins, which are excluded from
// aggregation so a pair is never counted twice, and rejected as direct
// edit targets.
var derivedMonthly = map[Kind]map[string]bool{
	KindExpense: {
		ExpenseEquipmentMonthly: true,
		ExpenseAnimalsMonthly:   true,
	},
	KindIncome: {
		IncomeEggsHatchingMonthly: true,
		IncomeAnimalsMonthly:      true,
	},
}

// MonthlyCounterpart returns the monthly twin driven by a yearly item,
// or false when the item is not a pairing key.
func MonthlyCounterpart(kind Kind, itemID string) (string, bool) {
	monthly, ok := yearlyToMonthly[kind][itemID]
	return monthly, ok
}

// IsDerivedMonthly reports whether the item is the auto-derived monthly
// half of a yearly/monthly pair.
func IsDerivedMonthly(kind Kind, itemID string) bool {
	return derivedMonthly[kind][itemID]
}

// CustomItemPrefix returns the id prefix shared by all custom items of a
// kind, e.g. "custom-expense-".
func CustomItemPrefix(kind Kind) string {
	return "custom-" + string(kind) + "-"
}

// CustomItemID builds the identifier for a custom item, e.g.
// "custom-expense-3". n must come from the highest suffix already in use
// plus one, so an id is never reissued after a deletion.
func CustomItemID(kind Kind, n int) string {
	return CustomItemPrefix(kind) + strconv.Itoa(n)
}

// CustomItemSuffix extracts the numeric suffix from a custom item id of
// the given kind. ok is false when the id does not follow the
// custom-<kind>-<n> form.
func CustomItemSuffix(kind Kind, itemID string) (int, bool) {
	prefix := CustomItemPrefix(kind)
	if !strings.HasPrefix(itemID, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(itemID[len(prefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DefaultItems returns the predefined rows for a kind, values unset,
// in display order. Names are the Czech labels the product shipped with.
func DefaultItems(kind Kind) []LineItem {
	switch kind {
	case KindExpense:
		return []LineItem{
			{ItemID: ExpenseFeed, Name: "Měsíční náklady na krmení", IsMonthly: true, Order: 0},
			{ItemID: ExpenseEquipment, Name: "Roční náklady na vybavení", Order: 1},
			{ItemID: ExpenseEquipmentMonthly, Name: "Měsíční náklady na vybavení", IsMonthly: true, Order: 2},
			{ItemID: ExpenseVet, Name: "Měsíční náklady na veterinární péči", IsMonthly: true, Order: 3},
			{ItemID: ExpenseAnimals, Name: "Roční náklady na pořízení zvířat", Order: 4},
			{ItemID: ExpenseAnimalsMonthly, Name: "Měsíční náklady na pořízení zvířat", IsMonthly: true, Order: 5},
		}
	case KindIncome:
		return []LineItem{
			{ItemID: IncomeMeat, Name: "Měsíční příjmy z prodeje masa", IsMonthly: true, Order: 0},
			{ItemID: IncomeEggsConsumption, Name: "Měsíční příjmy z prodeje vajec pro spotřebu", IsMonthly: true, Order: 1},
			{ItemID: IncomeEggsHatching, Name: "Roční příjem z prodeje násadových vajec", Order: 2},
			{ItemID: IncomeEggsHatchingMonthly, Name: "Měsíční příjem z prodeje násadových vajec", IsMonthly: true, Order: 3},
			{ItemID: IncomeAnimalsYearly, Name: "Roční příjem z prodeje živých zvířat", Order: 4},
			{ItemID: IncomeAnimalsMonthly, Name: "Měsíční příjem z prodeje živých zvířat", IsMonthly: true, Order: 5},
			{ItemID: IncomeOther, Name: "Měsíční příjem z vedlejší živočišné produkce", IsMonthly: true, Order: 6},
			{ItemID: IncomeSubsidies, Name: "Měsíční příjem z pobíraných dotací", IsMonthly: true, Order: 7},
		}
	}
	return nil
}
