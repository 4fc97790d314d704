// services/progress_billing.go
package services

import (
	"math"

	"buildbill-backend/models"

	"github.com/shopspring/decimal"
)

// ProgressInput carries the three stored fields a line item's billing
// position is derived from. The percent fields are whole-number percents
// (50 means 50%) and nil when the user has not entered them yet.
type ProgressInput struct {
	Amount                float64
	ProgressOverallPct    *float64
	PreviouslyInvoicedPct *float64
}

// ProgressResult holds the four derived billing fields. These are a cache of
// the computation, never independent truth.
type ProgressResult struct {
	CompletedAmount          float64
	PreviouslyInvoicedAmount float64
	NewProgressPct           float64
	ThisBill                 float64
}

var oneHundred = decimal.NewFromInt(100)

func hasProgress(p *float64) bool {
	return p != nil && !math.IsNaN(*p)
}

// safeDecimal converts a float to decimal, degrading NaN and infinities to
// zero instead of panicking.
func safeDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ComputeProgressBilling derives the four billing fields for one line item.
//
// The function is pure and total: missing or non-numeric inputs degrade to
// zero, out-of-range percents are computed literally (range enforcement
// happens at the API write boundary, see ClampPercent), and
// NewProgressPct is deliberately not floored at zero — when previously
// invoiced exceeds overall progress the delta and ThisBill go negative,
// which is how credit-style corrections surface on the dashboard.
//
// Category rows never carry money: anything other than an "item" row yields
// all zeroes regardless of its numeric fields.
func ComputeProgressBilling(kind string, in ProgressInput) ProgressResult {
	if kind != models.ItemKindItem {
		return ProgressResult{}
	}

	amount := safeDecimal(in.Amount)

	var res ProgressResult

	if hasProgress(in.ProgressOverallPct) {
		p := safeDecimal(*in.ProgressOverallPct)
		res.CompletedAmount = p.Div(oneHundred).Mul(amount).InexactFloat64()
	}

	if hasProgress(in.PreviouslyInvoicedPct) {
		q := safeDecimal(*in.PreviouslyInvoicedPct)
		res.PreviouslyInvoicedAmount = amount.Mul(q.Div(oneHundred)).InexactFloat64()
	}

	newPct := decimal.Zero
	if hasProgress(in.ProgressOverallPct) && hasProgress(in.PreviouslyInvoicedPct) {
		newPct = safeDecimal(*in.ProgressOverallPct).Sub(safeDecimal(*in.PreviouslyInvoicedPct))
	}
	res.NewProgressPct = newPct.InexactFloat64()
	res.ThisBill = newPct.Div(oneHundred).Mul(amount).InexactFloat64()

	return res
}

// ApplyProgressBilling recomputes and stores the derived fields on a line
// item in place.
func ApplyProgressBilling(item *models.OrderLineItem) {
	res := ComputeProgressBilling(item.Kind, ProgressInput{
		Amount:                item.Amount,
		ProgressOverallPct:    item.ProgressOverallPct,
		PreviouslyInvoicedPct: item.PreviouslyInvoicedPct,
	})
	item.CompletedAmount = res.CompletedAmount
	item.PreviouslyInvoicedAmount = res.PreviouslyInvoicedAmount
	item.NewProgressPct = res.NewProgressPct
	item.ThisBill = res.ThisBill
}

// DeriveUnitRate fills in a missing unit rate from amount/quantity. A rate
// that already has a value always wins; the derivation only fires when the
// rate is empty and both operands are positive.
func DeriveUnitRate(amount float64, quantity *float64, rate *float64) *float64 {
	if rate != nil {
		return rate
	}
	if quantity == nil {
		return nil
	}
	amt := safeDecimal(amount)
	qty := safeDecimal(*quantity)
	if amt.IsPositive() && qty.IsPositive() {
		v := amt.Div(qty).InexactFloat64()
		return &v
	}
	return nil
}
