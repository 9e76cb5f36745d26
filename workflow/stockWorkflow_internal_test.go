package workflow

import (
	"context"
	"testing"

	"github.com/stitchcraft/pos_backend/models"
)

// With no Redis locker configured, StockLock degrades to a no-op and
// the DB row locks carry the serialization. The key set must still be
// deduplicated so one operation never locks a product twice.
func TestAcquireStockLocks_DedupesKeys(t *testing.T) {
	keys := []stockKey{
		{productType: models.ProductTypeSingle, productId: 7},
		{productType: models.ProductTypeSingle, productId: 7},
		{productType: models.ProductTypeVariant, productId: 7},
		{productType: models.ProductTypeSingle, productId: 3},
	}

	locks, err := acquireStockLocks(context.Background(), keys, "stockWorkflow.go", "test")
	if err != nil {
		t.Fatalf("acquireStockLocks: %v", err)
	}
	defer releaseStockLocks(context.Background(), locks)

	if len(locks) != 3 {
		t.Fatalf("lock count = %d, want 3 (duplicates collapsed)", len(locks))
	}
}
