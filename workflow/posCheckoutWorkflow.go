package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

// CommitPosSale finalizes a checkout: prices the cart from current
// product data, decrements stock, and writes the receipt. Unlike
// adjustments, a sale for more units than are on hand fails with
// ErrorInsufficientStock and nothing is committed.
func CommitPosSale(ctx context.Context, logger *logrus.Logger, input *models.NewPosSale) (*models.PosReceipt, error) {
	if len(input.Items) == 0 {
		return nil, utils.NewValidationError("items", "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, utils.NewValidationError("payment_method", "unknown payment method")
	}
	if input.DiscountType == "" {
		input.DiscountType = models.DiscountTypePercent
	}
	if !input.DiscountType.IsValid() {
		return nil, utils.NewValidationError("discount_type", "unknown discount type")
	}
	if input.Discount.IsNegative() || input.TaxRate.IsNegative() {
		return nil, utils.NewValidationError("discount", "must not be negative")
	}

	warehouseId := input.WarehouseId
	if warehouseId == 0 {
		warehouse, err := models.GetDefaultWarehouse(ctx)
		if err != nil {
			return nil, utils.NewValidationError("warehouse_id", "no default warehouse configured")
		}
		warehouseId = warehouse.ID
	} else if err := utils.ValidateResourceId[models.Warehouse](ctx, warehouseId); err != nil {
		return nil, err
	}

	details, err := buildReceiptDetails(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	keys := make([]stockKey, 0, len(details))
	for _, d := range details {
		keys = append(keys, stockKey{productType: d.ProductType, productId: d.ProductId})
	}
	locks, err := acquireStockLocks(ctx, keys, "posCheckoutWorkflow.go", "CommitPosSale")
	if err != nil {
		return nil, err
	}
	defer releaseStockLocks(ctx, locks)

	totals := models.ComputeReceiptTotals(details, input.DiscountType, input.Discount,
		input.TaxRate, input.AmountTendered)
	if input.PaymentMethod == models.PaymentMethodCash &&
		input.AmountTendered.LessThan(totals.TotalAmount) {
		return nil, utils.NewValidationError("amount_tendered", "less than amount due")
	}

	cashierId, _ := utils.GetUserIdFromContext(ctx)

	receipt := models.PosReceipt{
		ReceiptNumber:  "R-" + uuid.NewString(),
		CashierId:      cashierId,
		WarehouseId:    warehouseId,
		PaymentMethod:  input.PaymentMethod,
		SubTotal:       totals.SubTotal,
		DiscountType:   input.DiscountType,
		Discount:       input.Discount,
		DiscountAmount: totals.DiscountAmount,
		TaxRate:        input.TaxRate,
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.TotalAmount,
		AmountTendered: input.AmountTendered,
		ChangeDue:      totals.ChangeDue,
		Details:        details,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&receipt).Error; err != nil {
			config.LogError(logger, "posCheckoutWorkflow.go", "CommitPosSale", "CreateReceipt", receipt.ReceiptNumber, err)
			return err
		}
		for _, d := range receipt.Details {
			_, err := postMovement(tx, logger, d.ProductType, d.ProductId, warehouseId,
				-d.Qty, true, models.MovementTypePosSale, models.AdjustmentReasonSale,
				"pos_receipt", receipt.ID, receipt.ReceiptNumber, cashierId)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// QuotePosSale prices a cart without committing stock or a receipt.
func QuotePosSale(ctx context.Context, input *models.NewPosSale) (*models.ReceiptTotals, error) {
	if len(input.Items) == 0 {
		return nil, utils.NewValidationError("items", "cart is empty")
	}
	if !input.DiscountType.IsValid() {
		return nil, utils.NewValidationError("discount_type", "unknown discount type")
	}
	details, err := buildReceiptDetails(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	totals := models.ComputeReceiptTotals(details, input.DiscountType, input.Discount,
		input.TaxRate, input.AmountTendered)
	return &totals, nil
}

// buildReceiptDetails prices each cart line from the catalog and
// merges duplicate lines.
func buildReceiptDetails(ctx context.Context, items []models.NewPosSaleItem) ([]models.PosReceiptDetail, error) {
	merged := map[stockKey]*models.PosReceiptDetail{}
	order := make([]stockKey, 0, len(items))

	for _, item := range items {
		if item.Qty < 1 {
			return nil, utils.NewValidationError("items", "qty must be a positive integer")
		}
		if !item.ProductType.IsValid() {
			return nil, utils.NewValidationError("items", "unknown product type")
		}

		key := stockKey{productType: item.ProductType, productId: item.ProductId}
		if existing, ok := merged[key]; ok {
			existing.Qty += item.Qty
			continue
		}

		detail := models.PosReceiptDetail{
			ProductType: item.ProductType,
			ProductId:   item.ProductId,
			Qty:         item.Qty,
		}
		if item.ProductType == models.ProductTypeVariant {
			variant, err := models.GetProductVariant(ctx, item.ProductId)
			if err != nil {
				return nil, err
			}
			if !utils.DereferencePtr(variant.IsActive, false) {
				return nil, utils.NewValidationError("items", "variant is inactive")
			}
			detail.ProductName = variant.Name
			detail.Sku = variant.Sku
			detail.UnitPrice = variant.Price
		} else {
			product, err := models.GetProduct(ctx, item.ProductId)
			if err != nil {
				return nil, err
			}
			if !utils.DereferencePtr(product.IsActive, false) {
				return nil, utils.NewValidationError("items", "product is inactive")
			}
			if utils.DereferencePtr(product.HasVariants, false) {
				return nil, utils.NewValidationError("items", "sell a variant of this product")
			}
			detail.ProductName = product.Name
			detail.Sku = product.Sku
			detail.UnitPrice = product.Price
		}
		merged[key] = &detail
		order = append(order, key)
	}

	details := make([]models.PosReceiptDetail, 0, len(order))
	for _, key := range order {
		d := merged[key]
		d.LineAmount = d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Qty)))
		details = append(details, *d)
	}
	return details, nil
}
