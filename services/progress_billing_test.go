package services

import (
	"math"
	"testing"

	"buildbill-backend/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestComputeProgressBillingNoPercents(t *testing.T) {
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{Amount: 1200})

	assert.Equal(t, 0.0, res.CompletedAmount)
	assert.Equal(t, 0.0, res.PreviouslyInvoicedAmount)
	assert.Equal(t, 0.0, res.NewProgressPct)
	assert.Equal(t, 0.0, res.ThisBill)
}

func TestComputeProgressBillingZeroPreviouslyInvoiced(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		pct    float64
	}{
		{"half done", 1000, 50},
		{"quarter done", 2400, 25},
		{"fully done", 750, 100},
		{"not started", 750, 0},
		{"fractional percent", 1000, 33.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
				Amount:                tc.amount,
				ProgressOverallPct:    fptr(tc.pct),
				PreviouslyInvoicedPct: fptr(0),
			})

			expected := tc.pct / 100 * tc.amount
			assert.InDelta(t, expected, res.CompletedAmount, 1e-9)
			// Nothing previously invoiced: the whole completed amount is billable now
			assert.Equal(t, res.CompletedAmount, res.ThisBill)
			assert.Equal(t, tc.pct, res.NewProgressPct)
			assert.Equal(t, 0.0, res.PreviouslyInvoicedAmount)
		})
	}
}

func TestComputeProgressBillingTypical(t *testing.T) {
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
		Amount:                1000,
		ProgressOverallPct:    fptr(60),
		PreviouslyInvoicedPct: fptr(40),
	})

	assert.Equal(t, 600.0, res.CompletedAmount)
	assert.Equal(t, 400.0, res.PreviouslyInvoicedAmount)
	assert.Equal(t, 20.0, res.NewProgressPct)
	assert.Equal(t, 200.0, res.ThisBill)
}

func TestComputeProgressBillingNegativeDelta(t *testing.T) {
	// Previously invoiced exceeding overall progress yields a negative bill
	// (credit-style correction); the delta is not floored at zero.
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
		Amount:                1000,
		ProgressOverallPct:    fptr(30),
		PreviouslyInvoicedPct: fptr(50),
	})

	assert.Equal(t, -20.0, res.NewProgressPct)
	assert.Equal(t, -200.0, res.ThisBill)
	assert.Equal(t, 300.0, res.CompletedAmount)
	assert.Equal(t, 500.0, res.PreviouslyInvoicedAmount)
}

func TestComputeProgressBillingOnlyOnePercentPresent(t *testing.T) {
	// Without both percents there is no new-progress delta, hence no bill.
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
		Amount:             1000,
		ProgressOverallPct: fptr(50),
	})

	assert.Equal(t, 500.0, res.CompletedAmount)
	assert.Equal(t, 0.0, res.PreviouslyInvoicedAmount)
	assert.Equal(t, 0.0, res.NewProgressPct)
	assert.Equal(t, 0.0, res.ThisBill)
}

func TestComputeProgressBillingCategoryRowsAlwaysZero(t *testing.T) {
	for _, kind := range []string{models.ItemKindMainCategory, models.ItemKindSubCategory} {
		res := ComputeProgressBilling(kind, ProgressInput{
			Amount:                9999,
			ProgressOverallPct:    fptr(80),
			PreviouslyInvoicedPct: fptr(10),
		})
		assert.Equal(t, ProgressResult{}, res, "kind %s must carry no money", kind)
	}
}

func TestComputeProgressBillingDegradesToZeroOnBadInput(t *testing.T) {
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
		Amount:                math.NaN(),
		ProgressOverallPct:    fptr(math.NaN()),
		PreviouslyInvoicedPct: fptr(50),
	})

	assert.False(t, math.IsNaN(res.CompletedAmount))
	assert.False(t, math.IsNaN(res.ThisBill))
	assert.Equal(t, 0.0, res.CompletedAmount)
	assert.Equal(t, 0.0, res.NewProgressPct)
	assert.Equal(t, 0.0, res.ThisBill)
}

func TestComputeProgressBillingOutOfRangeComputedLiterally(t *testing.T) {
	// The calculator trusts the write boundary to clamp; given out-of-range
	// values it computes the formula as written instead of crashing.
	res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
		Amount:                100,
		ProgressOverallPct:    fptr(150),
		PreviouslyInvoicedPct: fptr(-25),
	})

	assert.Equal(t, 150.0, res.CompletedAmount)
	assert.Equal(t, -25.0, res.PreviouslyInvoicedAmount)
	assert.Equal(t, 175.0, res.NewProgressPct)
	assert.Equal(t, 175.0, res.ThisBill)
}

func TestComputeProgressBillingIdempotent(t *testing.T) {
	in := ProgressInput{
		Amount:                1234.56,
		ProgressOverallPct:    fptr(72),
		PreviouslyInvoicedPct: fptr(31),
	}
	first := ComputeProgressBilling(models.ItemKindItem, in)
	second := ComputeProgressBilling(models.ItemKindItem, in)
	assert.Equal(t, first, second)
}

func TestComputeProgressBillingMonotonicInOverallProgress(t *testing.T) {
	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 5 {
		res := ComputeProgressBilling(models.ItemKindItem, ProgressInput{
			Amount:                5000,
			ProgressOverallPct:    fptr(p),
			PreviouslyInvoicedPct: fptr(40),
		})
		assert.GreaterOrEqual(t, res.ThisBill, prev, "thisBill must not decrease as progress grows")
		prev = res.ThisBill
	}
}

func TestApplyProgressBilling(t *testing.T) {
	item := models.OrderLineItem{
		Kind:                  models.ItemKindItem,
		Amount:                800,
		ProgressOverallPct:    fptr(25),
		PreviouslyInvoicedPct: fptr(10),
		// Stale cached values that must be overwritten
		CompletedAmount: 999,
		ThisBill:        999,
	}

	ApplyProgressBilling(&item)

	assert.Equal(t, 200.0, item.CompletedAmount)
	assert.Equal(t, 80.0, item.PreviouslyInvoicedAmount)
	assert.Equal(t, 15.0, item.NewProgressPct)
	assert.Equal(t, 120.0, item.ThisBill)
}

func TestDeriveUnitRate(t *testing.T) {
	t.Run("derives when rate empty", func(t *testing.T) {
		rate := DeriveUnitRate(500, fptr(10), nil)
		if assert.NotNil(t, rate) {
			assert.Equal(t, 50.0, *rate)
		}
	})

	t.Run("manual entry always wins", func(t *testing.T) {
		rate := DeriveUnitRate(500, fptr(10), fptr(25))
		if assert.NotNil(t, rate) {
			assert.Equal(t, 25.0, *rate)
		}
	})

	t.Run("idempotent on derived value", func(t *testing.T) {
		first := DeriveUnitRate(500, fptr(10), nil)
		second := DeriveUnitRate(500, fptr(10), first)
		assert.Equal(t, first, second)
	})

	t.Run("needs both operands positive", func(t *testing.T) {
		assert.Nil(t, DeriveUnitRate(0, fptr(10), nil))
		assert.Nil(t, DeriveUnitRate(500, fptr(0), nil))
		assert.Nil(t, DeriveUnitRate(500, nil, nil))
	})
}
