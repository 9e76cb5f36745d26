package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/models"
)

func detail(productId int, qty int, unitCost string) models.PurchaseOrderDetail {
	return models.PurchaseOrderDetail{
		ProductType: models.ProductTypeSingle,
		ProductId:   productId,
		Qty:         qty,
		UnitCost:    decimal.RequireFromString(unitCost),
	}
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		qty      int
		unitCost string
		want     string
	}{
		{1, "10", "10"},
		{3, "10.50", "31.50"},
		{0, "99.99", "0"},
		{7, "0", "0"},
	}
	for _, tc := range cases {
		got := models.LineTotal(detail(1, tc.qty, tc.unitCost))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("LineTotal(qty=%d, cost=%s) = %s, want %s", tc.qty, tc.unitCost, got, tc.want)
		}
	}
}

func TestOrderTotal_OrderIndependent(t *testing.T) {
	a := detail(1, 3, "10")
	b := detail(2, 2, "12.25")
	c := detail(3, 5, "0.40")

	forward := models.OrderTotal([]models.PurchaseOrderDetail{a, b, c})
	reversed := models.OrderTotal([]models.PurchaseOrderDetail{c, b, a})

	if !forward.Equal(reversed) {
		t.Fatalf("total depends on line order: %s vs %s", forward, reversed)
	}
	want := decimal.RequireFromString("56.50")
	if !forward.Equal(want) {
		t.Fatalf("OrderTotal = %s, want %s", forward, want)
	}
}

func TestOrderTotal_Empty(t *testing.T) {
	if got := models.OrderTotal(nil); !got.IsZero() {
		t.Fatalf("empty order total = %s, want 0", got)
	}
}

func TestMergeOrderDetail_SumsQtyAndTakesNewerCost(t *testing.T) {
	details := []models.PurchaseOrderDetail{detail(1, 3, "10")}
	details = models.MergeOrderDetail(details, detail(1, 2, "12"))

	if len(details) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(details))
	}
	if details[0].Qty != 5 {
		t.Fatalf("merged qty = %d, want 5", details[0].Qty)
	}
	if !details[0].UnitCost.Equal(decimal.RequireFromString("12")) {
		t.Fatalf("merged unit cost = %s, want 12", details[0].UnitCost)
	}
	want := decimal.RequireFromString("60")
	if got := models.OrderTotal(details); !got.Equal(want) {
		t.Fatalf("merged order total = %s, want %s", got, want)
	}
}

func TestMergeOrderDetail_DistinctProductAppends(t *testing.T) {
	details := []models.PurchaseOrderDetail{detail(1, 3, "10")}
	details = models.MergeOrderDetail(details, detail(2, 1, "4"))

	if len(details) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(details))
	}
}

func TestMergeOrderDetail_VariantDoesNotMergeWithProduct(t *testing.T) {
	variant := models.PurchaseOrderDetail{
		ProductType: models.ProductTypeVariant,
		ProductId:   1,
		Qty:         2,
		UnitCost:    decimal.RequireFromString("5"),
	}
	details := models.MergeOrderDetail([]models.PurchaseOrderDetail{detail(1, 3, "10")}, variant)

	if len(details) != 2 {
		t.Fatalf("variant line merged with product line: %d lines", len(details))
	}
}

func TestRemoveOrderDetail(t *testing.T) {
	details := []models.PurchaseOrderDetail{detail(1, 3, "10"), detail(2, 1, "4")}

	details = models.RemoveOrderDetail(details, models.ProductTypeSingle, 1)
	if len(details) != 1 || details[0].ProductId != 2 {
		t.Fatalf("unexpected lines after removal: %+v", details)
	}

	// removing a product not on the order is a no-op
	details = models.RemoveOrderDetail(details, models.ProductTypeSingle, 99)
	if len(details) != 1 {
		t.Fatalf("removal of absent product changed lines: %+v", details)
	}
}
