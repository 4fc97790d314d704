package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRemainingBillable(t *testing.T) {
	assert.Equal(t, 200.0, RemainingBillable(500, 300))
	assert.Equal(t, 500.0, RemainingBillable(500, 0))
	assert.Equal(t, 0.0, RemainingBillable(500, 500))
	// Over-invoiced items have nothing left to bill, not a negative balance
	assert.Equal(t, 0.0, RemainingBillable(500, 700))
}

func TestReconcileInvoiceLinksSumsToInvoiceAmount(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	remaining := map[uuid.UUID]float64{a: 1000, b: 400}

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: 600},
		{OrderItemID: b, BilledAmount: 150.50},
	}, remaining)

	assert.Equal(t, 750.50, rec.InvoiceAmount)
	assert.Empty(t, rec.Notices)
	assert.Len(t, rec.Links, 2)
	assert.Equal(t, 600.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 150.50, rec.Links[1].BilledAmount)
}

func TestReconcileInvoiceLinksClampsToRemaining(t *testing.T) {
	a := uuid.New()
	remaining := map[uuid.UUID]float64{a: 250}

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: 400, ItemLabel: "Excavation"},
	}, remaining)

	assert.Equal(t, 250.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 250.0, rec.InvoiceAmount)
	if assert.Len(t, rec.Notices, 1) {
		assert.Contains(t, rec.Notices[0], "Excavation")
		assert.Contains(t, rec.Notices[0], "250.00")
	}
}

func TestReconcileInvoiceLinksDuplicatesShareOneBalance(t *testing.T) {
	a := uuid.New()
	remaining := map[uuid.UUID]float64{a: 500}

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: 400, ItemLabel: "Formwork"},
		{OrderItemID: a, BilledAmount: 400, ItemLabel: "Formwork"},
	}, remaining)

	// The second link only gets what the first left over
	assert.Equal(t, 400.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 100.0, rec.Links[1].BilledAmount)
	assert.Equal(t, 500.0, rec.InvoiceAmount)
	if assert.Len(t, rec.Notices, 1) {
		assert.Contains(t, rec.Notices[0], "100.00")
	}
}

func TestReconcileInvoiceLinksExhaustedItemBillsZero(t *testing.T) {
	a := uuid.New()

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: 300},
		{OrderItemID: a, BilledAmount: 50},
	}, map[uuid.UUID]float64{a: 300})

	assert.Equal(t, 300.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 0.0, rec.Links[1].BilledAmount)
	assert.Equal(t, 300.0, rec.InvoiceAmount)
	assert.Len(t, rec.Notices, 1)
}

func TestReconcileInvoiceLinksUnknownItemHasNothingBillable(t *testing.T) {
	a := uuid.New()

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: 100},
	}, map[uuid.UUID]float64{})

	assert.Equal(t, 0.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 0.0, rec.InvoiceAmount)
	assert.Len(t, rec.Notices, 1)
}

func TestReconcileInvoiceLinksNegativeBilledTreatedAsZero(t *testing.T) {
	a := uuid.New()

	rec := ReconcileInvoiceLinks([]LinkInput{
		{OrderItemID: a, BilledAmount: -50},
	}, map[uuid.UUID]float64{a: 300})

	assert.Equal(t, 0.0, rec.Links[0].BilledAmount)
	assert.Equal(t, 0.0, rec.InvoiceAmount)
	assert.Empty(t, rec.Notices)
}

func TestReconcileInvoiceLinksEmpty(t *testing.T) {
	rec := ReconcileInvoiceLinks(nil, nil)
	assert.Empty(t, rec.Links)
	assert.Equal(t, 0.0, rec.InvoiceAmount)
}
