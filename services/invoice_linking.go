// services/invoice_linking.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkInput is one requested item link: how much of an order line item the
// caller wants to bill on this invoice.
type LinkInput struct {
	OrderItemID  uuid.UUID
	BilledAmount float64
	ItemLabel    string
}

// LinkReconciliation is the outcome of reconciling an invoice's links:
// per-item billed amounts clamped to what is still billable, the invoice
// total forced to their sum, and a notice per silently corrected amount.
type LinkReconciliation struct {
	Links         []LinkInput
	InvoiceAmount float64
	Notices       []string
}

// RemainingBillable computes how much of a line item can still be billed:
// its current this-bill amount minus what is already invoiced for it on
// other invoices, floored at zero.
func RemainingBillable(thisBill, alreadyInvoiced float64) float64 {
	r := safeDecimal(thisBill).Sub(safeDecimal(alreadyInvoiced))
	if r.IsNegative() {
		return 0
	}
	return r.InexactFloat64()
}

// ReconcileInvoiceLinks enforces the linking invariant: each billed amount
// is clamped down to the item's remaining billable (never rejected, silently
// corrected with a notice), and the invoice amount equals the sum of the
// clamped billed amounts. Links naming the same item draw down one shared
// balance, so their combined billed amount cannot exceed that item's
// remaining billable either. With no links the caller keeps free-form entry
// and this function is not involved.
func ReconcileInvoiceLinks(links []LinkInput, remaining map[uuid.UUID]float64) LinkReconciliation {
	out := LinkReconciliation{Links: make([]LinkInput, 0, len(links))}

	working := make(map[uuid.UUID]decimal.Decimal, len(remaining))
	for id, v := range remaining {
		limit := safeDecimal(v)
		if limit.IsNegative() {
			limit = decimal.Zero
		}
		working[id] = limit
	}

	total := decimal.Zero
	for _, link := range links {
		billed := safeDecimal(link.BilledAmount)
		if billed.IsNegative() {
			billed = decimal.Zero
		}

		limit := working[link.OrderItemID]

		if billed.GreaterThan(limit) {
			label := link.ItemLabel
			if label == "" {
				label = link.OrderItemID.String()
			}
			out.Notices = append(out.Notices, fmt.Sprintf(
				"Billed amount for %q reduced to remaining billable %s", label, limit.StringFixed(2)))
			billed = limit
		}
		working[link.OrderItemID] = limit.Sub(billed)

		link.BilledAmount = billed.InexactFloat64()
		out.Links = append(out.Links, link)
		total = total.Add(billed)
	}

	out.InvoiceAmount = total.InexactFloat64()
	return out
}
