package models

import (
	"context"
	"time"

	"github.com/stitchcraft/pos_backend/config"
)

// StockMovement is the append-only audit trail behind every stock
// level change. Rows are never updated or deleted.
type StockMovement struct {
	ID           int              `gorm:"primary_key" json:"id"`
	ProductType  ProductType      `gorm:"size:1;not null;index:idx_stock_movements_product" json:"product_type"`
	ProductId    int              `gorm:"not null;index:idx_stock_movements_product" json:"product_id"`
	WarehouseId  int              `gorm:"not null;index" json:"warehouse_id"`
	MovementType MovementType     `gorm:"size:20;not null" json:"movement_type"`
	Reason       AdjustmentReason `gorm:"size:30" json:"reason"`
	QtyBefore    int              `gorm:"not null" json:"qty_before"`
	QtyAfter     int              `gorm:"not null" json:"qty_after"`
	QtyChange    int              `gorm:"not null" json:"qty_change"`
	// ReferenceId points at the purchase order or receipt that caused
	// the movement, when one exists.
	ReferenceType string `gorm:"size:20" json:"reference_type"`
	ReferenceId   int    `json:"reference_id"`
	Notes         string `gorm:"size:255" json:"notes"`
	CreatedBy     int    `gorm:"index" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type StockMovementFilter struct {
	ProductType  *ProductType
	ProductId    *int
	WarehouseId  *int
	MovementType *MovementType
	From         *time.Time
	To           *time.Time
	Limit        int
}

func ListStockMovement(ctx context.Context, filter StockMovementFilter) ([]*StockMovement, error) {
	db := config.GetDB()
	var results []*StockMovement

	dbCtx := db.WithContext(ctx).Order("id DESC")
	if filter.ProductType != nil {
		dbCtx = dbCtx.Where("product_type = ?", *filter.ProductType)
	}
	if filter.ProductId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *filter.ProductId)
	}
	if filter.WarehouseId != nil {
		dbCtx = dbCtx.Where("warehouse_id = ?", *filter.WarehouseId)
	}
	if filter.MovementType != nil {
		dbCtx = dbCtx.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.From != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *filter.To)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if err := dbCtx.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
