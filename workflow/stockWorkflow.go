package workflow

import (
	"context"
	"errors"
	"sort"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

// ErrorInsufficientStock is returned when a sale asks for more units
// than a warehouse holds. Adjustments never return it; they clamp.
var ErrorInsufficientStock = errors.New("insufficient stock")

type RestockInput struct {
	ProductType models.ProductType `json:"product_type" binding:"required"`
	ProductId   int                `json:"product_id" binding:"required"`
	WarehouseId int                `json:"warehouse_id" binding:"required"`
	Qty         int                `json:"qty" binding:"required,min=1"`
	Notes       string             `json:"notes"`
}

type AdjustInput struct {
	ProductType models.ProductType         `json:"product_type" binding:"required"`
	ProductId   int                        `json:"product_id" binding:"required"`
	WarehouseId int                        `json:"warehouse_id" binding:"required"`
	Direction   models.AdjustmentDirection `json:"direction" binding:"required"`
	Qty         int                        `json:"qty" binding:"required,min=1"`
	Reason      models.AdjustmentReason    `json:"reason" binding:"required"`
	Notes       string                     `json:"notes"`
}

func validateStockTarget(ctx context.Context, productType models.ProductType, productId int, warehouseId int) error {
	if !productType.IsValid() {
		return utils.NewValidationError("product_type", "unknown product type")
	}
	if productType == models.ProductTypeVariant {
		if err := utils.ValidateResourceId[models.ProductVariant](ctx, productId); err != nil {
			return err
		}
	} else {
		if err := utils.ValidateResourceId[models.Product](ctx, productId); err != nil {
			return err
		}
	}
	return utils.ValidateResourceId[models.Warehouse](ctx, warehouseId)
}

// postMovement applies a quantity delta to one stock level row and
// records the movement. Caller must already hold the stock lock and
// run inside a transaction. Negative results clamp to zero unless
// strict is set, in which case the caller gets ErrorInsufficientStock.
func postMovement(tx *gorm.DB, logger *logrus.Logger, productType models.ProductType, productId int,
	warehouseId int, delta int, strict bool, movementType models.MovementType,
	reason models.AdjustmentReason, referenceType string, referenceId int,
	notes string, userId int) (*models.StockMovement, error) {

	level, err := models.LockStockLevel(tx, productType, productId, warehouseId)
	if err != nil {
		config.LogError(logger, "stockWorkflow.go", "postMovement", "LockStockLevel", productId, err)
		return nil, err
	}

	after := level.Qty + delta
	if after < 0 {
		if strict {
			return nil, ErrorInsufficientStock
		}
		after = 0
	}

	before := level.Qty
	if err := models.WriteStockLevel(tx, level, after); err != nil {
		config.LogError(logger, "stockWorkflow.go", "postMovement", "WriteStockLevel", productId, err)
		return nil, err
	}

	movement := models.StockMovement{
		ProductType:   productType,
		ProductId:     productId,
		WarehouseId:   warehouseId,
		MovementType:  movementType,
		Reason:        reason,
		QtyBefore:     before,
		QtyAfter:      after,
		QtyChange:     after - before,
		ReferenceType: referenceType,
		ReferenceId:   referenceId,
		Notes:         notes,
		CreatedBy:     userId,
	}
	if err := tx.Create(&movement).Error; err != nil {
		config.LogError(logger, "stockWorkflow.go", "postMovement", "CreateStockMovement", movement, err)
		return nil, err
	}

	if _, err := models.RefreshCachedStock(tx, productType, productId); err != nil {
		config.LogError(logger, "stockWorkflow.go", "postMovement", "RefreshCachedStock", productId, err)
		return nil, err
	}
	return &movement, nil
}

// Restock adds received units to a warehouse.
func Restock(ctx context.Context, logger *logrus.Logger, input *RestockInput) (*models.StockMovement, error) {
	if err := validateStockTarget(ctx, input.ProductType, input.ProductId, input.WarehouseId); err != nil {
		return nil, err
	}
	if input.Qty < 1 {
		return nil, utils.NewValidationError("qty", "must be a positive integer")
	}

	lock, err := utils.StockLock(ctx, string(input.ProductType), input.ProductId, "stockWorkflow.go", "Restock")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	userId, _ := utils.GetUserIdFromContext(ctx)

	var movement *models.StockMovement
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movement, err = postMovement(tx, logger, input.ProductType, input.ProductId, input.WarehouseId,
			input.Qty, false, models.MovementTypeRestock, models.AdjustmentReasonPurchase,
			"", 0, input.Notes, userId)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Adjust corrects stock up or down with an audited reason. Removing
// more than is on hand empties the warehouse; it is not an error.
func Adjust(ctx context.Context, logger *logrus.Logger, input *AdjustInput) (*models.StockMovement, error) {
	if err := validateStockTarget(ctx, input.ProductType, input.ProductId, input.WarehouseId); err != nil {
		return nil, err
	}
	if input.Qty < 1 {
		return nil, utils.NewValidationError("qty", "must be a positive integer")
	}
	if !input.Direction.IsValid() {
		return nil, utils.NewValidationError("direction", "must be add or remove")
	}
	if !input.Reason.IsValid() {
		return nil, utils.NewValidationError("reason", "unknown reason")
	}

	lock, err := utils.StockLock(ctx, string(input.ProductType), input.ProductId, "stockWorkflow.go", "Adjust")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	delta := input.Qty
	movementType := models.MovementTypeAdjustmentIn
	if input.Direction == models.AdjustmentDirectionRemove {
		delta = -input.Qty
		movementType = models.MovementTypeAdjustmentOut
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	var movement *models.StockMovement
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movement, err = postMovement(tx, logger, input.ProductType, input.ProductId, input.WarehouseId,
			delta, false, movementType, input.Reason, "", 0, input.Notes, userId)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// acquireStockLocks takes the per-product locks for a multi-line
// operation. Locks are acquired in sorted key order so two concurrent
// operations over the same products cannot deadlock.
func acquireStockLocks(ctx context.Context, items []stockKey, moduleName string, functionName string) ([]*redislock.Lock, error) {
	seen := map[stockKey]bool{}
	keys := make([]stockKey, 0, len(items))
	for _, k := range items {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productType != keys[j].productType {
			return keys[i].productType < keys[j].productType
		}
		return keys[i].productId < keys[j].productId
	})

	locks := make([]*redislock.Lock, 0, len(keys))
	for _, k := range keys {
		lock, err := utils.StockLock(ctx, string(k.productType), k.productId, moduleName, functionName)
		if err != nil {
			releaseStockLocks(ctx, locks)
			return nil, err
		}
		locks = append(locks, lock)
	}
	return locks, nil
}

func releaseStockLocks(ctx context.Context, locks []*redislock.Lock) {
	for _, lock := range locks {
		utils.ReleaseLock(ctx, lock)
	}
}

type stockKey struct {
	productType models.ProductType
	productId   int
}
