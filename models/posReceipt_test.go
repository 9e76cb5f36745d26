package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/models"
)

func receiptLine(productId int, qty int, unitPrice string) models.PosReceiptDetail {
	price := decimal.RequireFromString(unitPrice)
	return models.PosReceiptDetail{
		ProductType: models.ProductTypeSingle,
		ProductId:   productId,
		Qty:         qty,
		UnitPrice:   price,
		LineAmount:  price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestComputeReceiptTotals_PercentDiscountAndTax(t *testing.T) {
	details := []models.PosReceiptDetail{
		receiptLine(1, 2, "25"),
		receiptLine(2, 1, "50"),
	}

	totals := models.ComputeReceiptTotals(details,
		models.DiscountTypePercent, decimal.RequireFromString("10"),
		decimal.RequireFromString("5"), decimal.RequireFromString("100"))

	if !totals.SubTotal.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("sub total = %s, want 100", totals.SubTotal)
	}
	if !totals.DiscountAmount.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("discount = %s, want 10", totals.DiscountAmount)
	}
	if !totals.TaxAmount.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("tax = %s, want 4.5", totals.TaxAmount)
	}
	if !totals.TotalAmount.Equal(decimal.RequireFromString("94.5")) {
		t.Fatalf("total = %s, want 94.5", totals.TotalAmount)
	}
	if !totals.ChangeDue.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("change due = %s, want 5.5", totals.ChangeDue)
	}
}

func TestComputeReceiptTotals_AmountDiscount(t *testing.T) {
	details := []models.PosReceiptDetail{receiptLine(1, 4, "25")}

	totals := models.ComputeReceiptTotals(details,
		models.DiscountTypeAmount, decimal.RequireFromString("15"),
		decimal.Zero, decimal.RequireFromString("85"))

	if !totals.TotalAmount.Equal(decimal.RequireFromString("85")) {
		t.Fatalf("total = %s, want 85", totals.TotalAmount)
	}
	if !totals.ChangeDue.IsZero() {
		t.Fatalf("change due = %s, want 0", totals.ChangeDue)
	}
}

func TestComputeReceiptTotals_OversizedAmountDiscountClampsToSubTotal(t *testing.T) {
	details := []models.PosReceiptDetail{receiptLine(1, 2, "25")}

	totals := models.ComputeReceiptTotals(details,
		models.DiscountTypeAmount, decimal.RequireFromString("200"),
		decimal.RequireFromString("5"), decimal.Zero)

	if !totals.DiscountAmount.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("discount = %s, want clamped to sub total 50", totals.DiscountAmount)
	}
	if !totals.TaxAmount.IsZero() {
		t.Fatalf("tax = %s, want 0 on a zeroed cart", totals.TaxAmount)
	}
	if !totals.TotalAmount.IsZero() {
		t.Fatalf("total = %s, want 0, never negative", totals.TotalAmount)
	}
}

func TestComputeReceiptTotals_UnderTenderedChangeClampsToZero(t *testing.T) {
	details := []models.PosReceiptDetail{receiptLine(1, 1, "40")}

	totals := models.ComputeReceiptTotals(details,
		models.DiscountTypePercent, decimal.Zero,
		decimal.Zero, decimal.RequireFromString("20"))

	if !totals.ChangeDue.IsZero() {
		t.Fatalf("change due = %s, want 0 when under-tendered", totals.ChangeDue)
	}
}

func TestComputeReceiptTotals_EmptyCart(t *testing.T) {
	totals := models.ComputeReceiptTotals(nil,
		models.DiscountTypePercent, decimal.Zero, decimal.Zero, decimal.Zero)

	if !totals.SubTotal.IsZero() || !totals.TotalAmount.IsZero() {
		t.Fatalf("empty cart totals = %+v, want all zero", totals)
	}
}
