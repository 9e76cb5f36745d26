package models

import (
	"context"
	"time"

	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLevel is the per-warehouse on-hand quantity for a product or
// variant. Rows are created lazily on first movement. Qty never goes
// below zero.
type StockLevel struct {
	ID          int         `gorm:"primary_key" json:"id"`
	ProductType ProductType `gorm:"size:1;not null;uniqueIndex:uix_stock_levels_key" json:"product_type"`
	ProductId   int         `gorm:"not null;uniqueIndex:uix_stock_levels_key" json:"product_id"`
	WarehouseId int         `gorm:"not null;uniqueIndex:uix_stock_levels_key" json:"warehouse_id"`
	Qty         int         `gorm:"not null;default:0" json:"qty"`

	Warehouse *Warehouse `gorm:"foreignkey:WarehouseId" json:"warehouse,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// LockStockLevel fetches (or creates) the stock level row inside tx,
// holding a row lock for the rest of the transaction.
func LockStockLevel(tx *gorm.DB, productType ProductType, productId int, warehouseId int) (*StockLevel, error) {
	var level StockLevel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(StockLevel{ProductType: productType, ProductId: productId, WarehouseId: warehouseId}).
		FirstOrCreate(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func WriteStockLevel(tx *gorm.DB, level *StockLevel, qty int) error {
	if qty < 0 {
		qty = 0
	}
	if err := tx.Model(level).Update("qty", qty).Error; err != nil {
		return err
	}
	level.Qty = qty
	return nil
}

// RefreshCachedStock recomputes the cached product/variant total from
// the warehouse rows. Must run inside the same tx as the level write.
func RefreshCachedStock(tx *gorm.DB, productType ProductType, productId int) (int, error) {
	var total int
	err := tx.Model(&StockLevel{}).
		Where("product_type = ? AND product_id = ?", productType, productId).
		Select("COALESCE(SUM(qty), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if productType == ProductTypeVariant {
		err = tx.Model(&ProductVariant{}).Where("id = ?", productId).
			Update("stock_level", total).Error
	} else {
		err = tx.Model(&Product{}).Where("id = ?", productId).
			Update("stock_level", total).Error
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

func GetStockLevel(ctx context.Context, productType ProductType, productId int, warehouseId int) (*StockLevel, error) {
	db := config.GetDB()
	var level StockLevel
	err := db.WithContext(ctx).
		Where("product_type = ? AND product_id = ? AND warehouse_id = ?", productType, productId, warehouseId).
		First(&level).Error
	if err == gorm.ErrRecordNotFound {
		// no movements yet means zero on hand
		return &StockLevel{ProductType: productType, ProductId: productId, WarehouseId: warehouseId}, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func ListStockLevelByProduct(ctx context.Context, productType ProductType, productId int) ([]*StockLevel, error) {
	db := config.GetDB()
	var results []*StockLevel
	err := db.WithContext(ctx).Preload("Warehouse").
		Where("product_type = ? AND product_id = ?", productType, productId).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListStockLevelByWarehouse(ctx context.Context, warehouseId int) ([]*StockLevel, error) {
	db := config.GetDB()
	if err := utils.ValidateResourceId[Warehouse](ctx, warehouseId); err != nil {
		return nil, err
	}
	var results []*StockLevel
	err := db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseId).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
