/*
ledger.go - Session-scoped adjustment ledger

PURPOSE:
  Holds the free-form payslip line items the user enters during one
  reconciliation session: overtime tiers, meal compensation, allowances,
  deductions. Items live only for the session unless promoted to a
  WorkLog via the backfill path.

AMOUNT AUTO-DERIVATION:
  Editing Hours or Rate recomputes Amount = round(hours x rate, 2) when
  both parse as numbers, overwriting any manually entered amount. Editing
  Amount directly is a manual override that sticks until the next
  hours/rate edit.

CATEGORIES:
  The category is descriptive metadata only. A Deduction item does not get
  a forced negative sign and no category receives special tax treatment;
  the sign of the amount is whatever the user typed.

FAILURE HANDLING:
  Numeric parsing never blocks: malformed hours/rate skip the derivation,
  malformed amounts contribute zero to the total.
*/
package reconcile

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category tags an adjustment item. Closed enumeration.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryMealBreak Category = "meal_break"
	CategoryOvertime1 Category = "overtime_1"
	CategoryOvertime2 Category = "overtime_2"
	CategoryAllowance Category = "allowance"
	CategoryDeduction Category = "deduction"
)

// Label returns the display label used when composing log notes.
func (c Category) Label() string {
	switch c {
	case CategoryMealBreak:
		return "Meal Break"
	case CategoryOvertime1:
		return "Overtime 1"
	case CategoryOvertime2:
		return "Overtime 2"
	case CategoryAllowance:
		return "Allowance"
	case CategoryDeduction:
		return "Deduction"
	default:
		return "General"
	}
}

// ParseCategory maps a wire value to a Category, defaulting to General.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryMealBreak, CategoryOvertime1, CategoryOvertime2,
		CategoryAllowance, CategoryDeduction:
		return Category(s)
	default:
		return CategoryGeneral
	}
}

// Preset is a quick-add template seeding category and name.
type Preset struct {
	Category Category
	Name     string
}

// QuickAddPresets are the one-tap entries offered during a session.
var QuickAddPresets = []Preset{
	{Category: CategoryMealBreak, Name: "Meal Break"},
	{Category: CategoryOvertime1, Name: "OT First 2 Hrs"},
	{Category: CategoryOvertime2, Name: "OT After 2 Hrs"},
	{Category: CategoryAllowance, Name: "Allowance"},
	{Category: CategoryDeduction, Name: "Deduction"},
}

// =============================================================================
// ITEMS
// =============================================================================

// Field names an editable AdjustmentItem field.
type Field string

const (
	FieldCategory Field = "category"
	FieldName     Field = "name"
	FieldHours    Field = "hours"
	FieldRate     Field = "rate"
	FieldAmount   Field = "amount"
)

// AdjustmentItem is one user-entered payslip line. Hours, Rate, and
// Amount are kept as the raw decimal strings the user typed.
type AdjustmentItem struct {
	ID       string
	Category Category
	Name     string
	Hours    string
	Rate     string
	Amount   string
}

// =============================================================================
// LEDGER
// =============================================================================

// AdjustmentLedger holds the ordered items of one reconciliation session.
// Not safe for concurrent use; a session is single-threaded by design.
type AdjustmentLedger struct {
	items []*AdjustmentItem
}

func NewAdjustmentLedger() *AdjustmentLedger {
	return &AdjustmentLedger{}
}

// Add appends a new item with the given category and optional prefilled
// name. Hours, rate, and amount start empty.
func (l *AdjustmentLedger) Add(category Category, name string) *AdjustmentItem {
	item := &AdjustmentItem{
		ID:       uuid.NewString(),
		Category: category,
		Name:     name,
	}
	l.items = append(l.items, item)
	return item
}

// Remove deletes an item by ID. Returns false if the ID does not exist.
func (l *AdjustmentLedger) Remove(id string) bool {
	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Item returns the item with the given ID.
func (l *AdjustmentLedger) Item(id string) (*AdjustmentItem, bool) {
	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// Items returns the items in insertion order.
func (l *AdjustmentLedger) Items() []*AdjustmentItem {
	result := make([]*AdjustmentItem, len(l.items))
	copy(result, l.items)
	return result
}

// Update sets one field on one item. Editing hours or rate triggers the
// amount auto-derivation; editing amount is a manual override.
func (l *AdjustmentLedger) Update(id string, field Field, value string) error {
	item, ok := l.Item(id)
	if !ok {
		return ErrItemNotFound
	}

	switch field {
	case FieldCategory:
		item.Category = ParseCategory(value)
	case FieldName:
		item.Name = value
	case FieldHours:
		item.Hours = value
		deriveAmount(item)
	case FieldRate:
		item.Rate = value
		deriveAmount(item)
	case FieldAmount:
		item.Amount = value
	default:
		return fmt.Errorf("unknown adjustment field %q", field)
	}
	return nil
}

// deriveAmount recomputes Amount = round(hours x rate, 2) when both
// fields parse. Otherwise the current amount (manual or empty) stands.
func deriveAmount(item *AdjustmentItem) {
	hours, okH := strictDecimal(item.Hours)
	rate, okR := strictDecimal(item.Rate)
	if !okH || !okR {
		return
	}
	item.Amount = hours.Mul(rate).Round(2).StringFixed(2)
}

// Total sums every item's amount. Amounts that fail to parse contribute
// zero; signs are preserved as typed.
func (l *AdjustmentLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(lenientDecimal(item.Amount))
	}
	return total
}
