package controllers

import (
	"testing"

	"buildbill-backend/models"
	"buildbill-backend/utils"

	"github.com/stretchr/testify/assert"
)

func TestSumInvoiceAmounts(t *testing.T) {
	assert.Equal(t, 0.0, sumInvoiceAmounts(nil))

	invoices := []models.Invoice{
		{Amount: 1200.10},
		{Amount: 350.25},
		{Amount: 0.65},
	}
	assert.Equal(t, 1551.0, sumInvoiceAmounts(invoices))
}

func TestFreeFormAmount(t *testing.T) {
	// Unlinking without an explicit amount resets to zero instead of
	// retaining the stale link sum
	assert.Equal(t, 0.0, freeFormAmount(nil))
	assert.Equal(t, 0.0, freeFormAmount(&utils.Numeric{}))

	n := utils.Numeric{Value: fptr(275.50)}
	assert.Equal(t, 275.50, freeFormAmount(&n))
}
