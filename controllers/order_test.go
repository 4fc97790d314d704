package controllers

import (
	"testing"

	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func numeric(v float64) utils.Numeric { return utils.Numeric{Value: &v} }

func TestBuildLineItemsKeepsExistingIDs(t *testing.T) {
	orderID := uuid.New()
	existing := uuid.New()

	items := buildLineItems(orderID, []OrderItemInput{
		{ID: &existing, ProductService: "Excavation", Amount: numeric(1000)},
		{ProductService: "Backfill", Amount: numeric(400)},
	})

	require.Len(t, items, 2)

	// A row that came back with its id keeps it; invoice links and
	// already-invoiced totals reference items by id, so a full-set save must
	// not change the identity of surviving rows.
	assert.Equal(t, existing, items[0].ID)

	assert.NotEqual(t, uuid.Nil, items[1].ID)
	assert.NotEqual(t, existing, items[1].ID)

	for i, item := range items {
		assert.Equal(t, orderID, item.OrderID)
		assert.Equal(t, i, item.SortOrder)
	}
}

func TestBuildLineItemsRecomputesDerivedFields(t *testing.T) {
	orderID := uuid.New()

	items := buildLineItems(orderID, []OrderItemInput{
		{
			ProductService:        "Concrete",
			Quantity:              numeric(10),
			Amount:                numeric(500),
			ProgressOverallPct:    numeric(150), // clamped to 100 at the boundary
			PreviouslyInvoicedPct: numeric(40),
		},
	})

	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, models.ItemKindItem, item.Kind)
	require.NotNil(t, item.UnitRate)
	assert.Equal(t, 50.0, *item.UnitRate)
	require.NotNil(t, item.ProgressOverallPct)
	assert.Equal(t, 100.0, *item.ProgressOverallPct)
	assert.Equal(t, 500.0, item.CompletedAmount)
	assert.Equal(t, 200.0, item.PreviouslyInvoicedAmount)
	assert.Equal(t, 60.0, item.NewProgressPct)
	assert.Equal(t, 300.0, item.ThisBill)
}

func TestBuildLineItemsUnknownKindDefaultsToItem(t *testing.T) {
	items := buildLineItems(uuid.New(), []OrderItemInput{
		{Kind: "header", ProductService: "Sitework"},
		{Kind: models.ItemKindMainCategory, ProductService: "Sitework"},
	})

	require.Len(t, items, 2)
	assert.Equal(t, models.ItemKindItem, items[0].Kind)
	assert.Equal(t, models.ItemKindMainCategory, items[1].Kind)
}
