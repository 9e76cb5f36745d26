package workflow

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

// ReceivePurchaseOrder posts every line of a submitted order into the
// destination warehouse and marks the order Received. The whole
// receipt commits or rolls back as one unit; an order can only be
// received once.
func ReceivePurchaseOrder(ctx context.Context, logger *logrus.Logger, orderId int) (*models.PurchaseOrder, error) {
	order, err := models.GetPurchaseOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if !order.CurrentStatus.IsReceivable() {
		return nil, utils.ErrorInvalidState
	}
	if len(order.Details) == 0 {
		return nil, utils.NewValidationError("details", "order has no lines")
	}

	keys := make([]stockKey, 0, len(order.Details))
	for _, d := range order.Details {
		keys = append(keys, stockKey{productType: d.ProductType, productId: d.ProductId})
	}
	locks, err := acquireStockLocks(ctx, keys, "purchaseReceiveWorkflow.go", "ReceivePurchaseOrder")
	if err != nil {
		return nil, err
	}
	defer releaseStockLocks(ctx, locks)

	userId, _ := utils.GetUserIdFromContext(ctx)
	now := time.Now()

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-check under the lock so two receives cannot both pass
		var current models.PurchaseOrder
		if err := tx.First(&current, orderId).Error; err != nil {
			return err
		}
		if !current.CurrentStatus.IsReceivable() {
			return utils.ErrorInvalidState
		}

		// every line must still point at a live product; a lazy
		// FirstOrCreate on stock_levels would otherwise post units
		// against a row that no longer exists
		for _, d := range order.Details {
			if err := lineTargetExists(tx, d.ProductType, d.ProductId); err != nil {
				return err
			}
		}

		for _, d := range order.Details {
			_, err := postMovement(tx, logger, d.ProductType, d.ProductId, order.WarehouseId,
				d.Qty, false, models.MovementTypePurchaseReceipt, models.AdjustmentReasonPurchase,
				"purchase_order", order.ID, order.OrderNumber, userId)
			if err != nil {
				return err
			}
		}

		err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", orderId).
			Updates(map[string]interface{}{
				"CurrentStatus": models.PurchaseOrderStatusReceived,
				"ReceivedDate":  now,
			}).Error
		if err != nil {
			config.LogError(logger, "purchaseReceiveWorkflow.go", "ReceivePurchaseOrder", "UpdateStatus", orderId, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.CurrentStatus = models.PurchaseOrderStatusReceived
	order.ReceivedDate = &now
	return order, nil
}

func lineTargetExists(tx *gorm.DB, productType models.ProductType, productId int) error {
	var count int64
	var err error
	if productType == models.ProductTypeVariant {
		err = tx.Model(&models.ProductVariant{}).Where("id = ?", productId).Count(&count).Error
	} else {
		err = tx.Model(&models.Product{}).Where("id = ?", productId).Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
