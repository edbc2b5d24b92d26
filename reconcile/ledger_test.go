package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaalpha-app/paylevel-up-v4/reconcile"
)

// =============================================================================
// AMOUNT AUTO-DERIVATION TESTS
// =============================================================================

func TestLedger_HoursAndRate_DeriveAmount(t *testing.T) {
	// GIVEN: An item with hours 6 and rate 10
	// WHEN: Both fields have been edited
	// THEN: Amount is derived as 60.00

	l := reconcile.NewAdjustmentLedger()
	item := l.Add(reconcile.CategoryOvertime1, "OT First 2 Hrs")

	require.NoError(t, l.Update(item.ID, reconcile.FieldHours, "6"))
	require.NoError(t, l.Update(item.ID, reconcile.FieldRate, "10"))

	assert.Equal(t, "60.00", item.Amount)
}

func TestLedger_ManualAmount_SticksUntilNextDerivation(t *testing.T) {
	// GIVEN: A derived amount of 60.00
	// WHEN: The user types 45 into the amount field
	// THEN: 45 stands; a later rate edit re-derives and overwrites it

	l := reconcile.NewAdjustmentLedger()
	item := l.Add(reconcile.CategoryGeneral, "")

	require.NoError(t, l.Update(item.ID, reconcile.FieldHours, "6"))
	require.NoError(t, l.Update(item.ID, reconcile.FieldRate, "10"))
	require.Equal(t, "60.00", item.Amount)

	require.NoError(t, l.Update(item.ID, reconcile.FieldAmount, "45"))
	assert.Equal(t, "45", item.Amount)

	require.NoError(t, l.Update(item.ID, reconcile.FieldRate, "12"))
	assert.Equal(t, "72.00", item.Amount)
}

func TestLedger_PartialInputs_SkipDerivation(t *testing.T) {
	l := reconcile.NewAdjustmentLedger()
	item := l.Add(reconcile.CategoryMealBreak, "Meal Break")

	// Hours alone: no rate yet, amount stays empty.
	require.NoError(t, l.Update(item.ID, reconcile.FieldHours, "2"))
	assert.Equal(t, "", item.Amount)

	// Malformed rate: derivation skipped, manual amount untouched.
	require.NoError(t, l.Update(item.ID, reconcile.FieldAmount, "15"))
	require.NoError(t, l.Update(item.ID, reconcile.FieldRate, "abc"))
	assert.Equal(t, "15", item.Amount)
}

func TestLedger_DerivedAmount_RoundsToTwoPlaces(t *testing.T) {
	l := reconcile.NewAdjustmentLedger()
	item := l.Add(reconcile.CategoryGeneral, "")

	require.NoError(t, l.Update(item.ID, reconcile.FieldHours, "1.333"))
	require.NoError(t, l.Update(item.ID, reconcile.FieldRate, "10"))

	assert.Equal(t, "13.33", item.Amount)
}

// =============================================================================
// TOTAL AND LIFECYCLE TESTS
// =============================================================================

func TestLedger_Total_SkipsMalformedAmounts(t *testing.T) {
	// GIVEN: Items with amounts 50, "abc", and -20
	// WHEN: Totalling
	// THEN: Malformed contributes zero, signs are preserved: total 30

	l := reconcile.NewAdjustmentLedger()
	a := l.Add(reconcile.CategoryAllowance, "Allowance")
	b := l.Add(reconcile.CategoryGeneral, "")
	c := l.Add(reconcile.CategoryDeduction, "Deduction")

	require.NoError(t, l.Update(a.ID, reconcile.FieldAmount, "50"))
	require.NoError(t, l.Update(b.ID, reconcile.FieldAmount, "abc"))
	require.NoError(t, l.Update(c.ID, reconcile.FieldAmount, "-20"))

	assert.True(t, l.Total().Equal(dec("30")), "total = %s", l.Total())
}

func TestLedger_DeductionCategory_NoForcedSign(t *testing.T) {
	// The category is descriptive only; a positive deduction stays positive.
	l := reconcile.NewAdjustmentLedger()
	item := l.Add(reconcile.CategoryDeduction, "Uniform")

	require.NoError(t, l.Update(item.ID, reconcile.FieldAmount, "25"))
	assert.True(t, l.Total().Equal(dec("25")), "total = %s", l.Total())
}

func TestLedger_AddRemoveItem(t *testing.T) {
	l := reconcile.NewAdjustmentLedger()
	a := l.Add(reconcile.CategoryGeneral, "")
	b := l.Add(reconcile.CategoryGeneral, "")

	require.Len(t, l.Items(), 2)
	assert.True(t, l.Remove(a.ID))
	assert.False(t, l.Remove(a.ID), "removing twice should fail")

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestLedger_UpdateUnknownItem_ErrItemNotFound(t *testing.T) {
	l := reconcile.NewAdjustmentLedger()
	err := l.Update("missing", reconcile.FieldName, "x")
	assert.ErrorIs(t, err, reconcile.ErrItemNotFound)
}

func TestQuickAddPresets_SeedCategoryAndName(t *testing.T) {
	require.Len(t, reconcile.QuickAddPresets, 5)

	want := map[reconcile.Category]string{
		reconcile.CategoryMealBreak: "Meal Break",
		reconcile.CategoryOvertime1: "OT First 2 Hrs",
		reconcile.CategoryOvertime2: "OT After 2 Hrs",
		reconcile.CategoryAllowance: "Allowance",
		reconcile.CategoryDeduction: "Deduction",
	}
	for _, p := range reconcile.QuickAddPresets {
		assert.Equal(t, want[p.Category], p.Name)
	}
}

func TestParseCategory_UnknownDefaultsToGeneral(t *testing.T) {
	assert.Equal(t, reconcile.CategoryGeneral, reconcile.ParseCategory("bogus"))
	assert.Equal(t, reconcile.CategoryOvertime2, reconcile.ParseCategory("overtime_2"))
}
