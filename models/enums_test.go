package models_test

import (
	"testing"

	"github.com/stitchcraft/pos_backend/models"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		name      string
		level     int
		threshold int
		want      models.StockStatus
	}{
		{"zero is out of stock", 0, 10, models.StockStatusOutOfStock},
		{"zero with zero threshold is still out of stock", 0, 0, models.StockStatusOutOfStock},
		{"below threshold is low", 3, 10, models.StockStatusLowStock},
		{"equal to threshold is low", 10, 10, models.StockStatusLowStock},
		{"one above threshold is in stock", 11, 10, models.StockStatusInStock},
		{"well stocked", 500, 10, models.StockStatusInStock},
		{"threshold one, single unit is low", 1, 1, models.StockStatusLowStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.ClassifyStock(tc.level, tc.threshold)
			if got != tc.want {
				t.Fatalf("ClassifyStock(%d, %d) = %q, want %q", tc.level, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestClassifyStock_RestockCrossesThreshold(t *testing.T) {
	threshold := 10
	if got := models.ClassifyStock(8, threshold); got != models.StockStatusLowStock {
		t.Fatalf("before restock: got %q, want %q", got, models.StockStatusLowStock)
	}
	if got := models.ClassifyStock(8+5, threshold); got != models.StockStatusInStock {
		t.Fatalf("after restock: got %q, want %q", got, models.StockStatusInStock)
	}
}

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	receivable := map[models.PurchaseOrderStatus]bool{
		models.PurchaseOrderStatusDraft:     false,
		models.PurchaseOrderStatusPending:   true,
		models.PurchaseOrderStatusApproved:  true,
		models.PurchaseOrderStatusReceived:  false,
		models.PurchaseOrderStatusCancelled: false,
	}
	for status, want := range receivable {
		if got := status.IsReceivable(); got != want {
			t.Errorf("%s.IsReceivable() = %v, want %v", status, got, want)
		}
	}

	if !models.PurchaseOrderStatusReceived.IsTerminal() {
		t.Error("Received should be terminal")
	}
	if !models.PurchaseOrderStatusCancelled.IsTerminal() {
		t.Error("Cancelled should be terminal")
	}
	if models.PurchaseOrderStatusDraft.IsTerminal() {
		t.Error("Draft should not be terminal")
	}
}
