package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

type PurchaseOrder struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	OrderNumber   string              `gorm:"size:30;not null;unique" json:"order_number"`
	SupplierId    int                 `gorm:"index;not null" json:"supplier_id"`
	WarehouseId   int                 `gorm:"index;not null" json:"warehouse_id"`
	OrderDate     time.Time           `json:"order_date"`
	ExpectedDate  *time.Time          `json:"expected_date"`
	ReceivedDate  *time.Time          `json:"received_date"`
	CurrentStatus PurchaseOrderStatus `gorm:"size:20;not null;default:'Draft'" json:"current_status"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes         string              `gorm:"size:255" json:"notes"`
	CreatedBy     int                 `json:"created_by"`

	Supplier  *Supplier             `gorm:"foreignkey:SupplierId" json:"supplier,omitempty"`
	Warehouse *Warehouse            `gorm:"foreignkey:WarehouseId" json:"warehouse,omitempty"`
	Details   []PurchaseOrderDetail `gorm:"foreignkey:PurchaseOrderId" json:"details,omitempty"`
	CreatedAt time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductType     ProductType     `gorm:"size:1;not null" json:"product_type"`
	ProductId       int             `gorm:"not null" json:"product_id"`
	ProductName     string          `gorm:"size:100" json:"product_name"`
	Sku             string          `gorm:"size:100" json:"sku"`
	Qty             int             `gorm:"not null" json:"qty"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LineTotal is qty times unit cost.
func LineTotal(d PurchaseOrderDetail) decimal.Decimal {
	return d.UnitCost.Mul(decimal.NewFromInt(int64(d.Qty)))
}

// OrderTotal sums line totals. Order of details does not matter.
func OrderTotal(details []PurchaseOrderDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(LineTotal(d))
	}
	return total
}

// MergeOrderDetail folds a new line into the detail list. Adding a
// product already on the order sums the quantities and takes the
// newer unit cost. A distinct product is appended.
func MergeOrderDetail(details []PurchaseOrderDetail, detail PurchaseOrderDetail) []PurchaseOrderDetail {
	for i, d := range details {
		if d.ProductType == detail.ProductType && d.ProductId == detail.ProductId {
			details[i].Qty = d.Qty + detail.Qty
			details[i].UnitCost = detail.UnitCost
			return details
		}
	}
	return append(details, detail)
}

// RemoveOrderDetail drops the line for a product, if present.
func RemoveOrderDetail(details []PurchaseOrderDetail, productType ProductType, productId int) []PurchaseOrderDetail {
	out := details[:0]
	for _, d := range details {
		if d.ProductType == productType && d.ProductId == productId {
			continue
		}
		out = append(out, d)
	}
	return out
}

type NewPurchaseOrder struct {
	SupplierId   int                      `json:"supplier_id" binding:"required"`
	WarehouseId  int                      `json:"warehouse_id" binding:"required"`
	OrderDate    time.Time                `json:"order_date"`
	ExpectedDate *time.Time               `json:"expected_date"`
	Notes        string                   `json:"notes"`
	Details      []NewPurchaseOrderDetail `json:"details" binding:"required,dive"`
}

type NewPurchaseOrderDetail struct {
	ProductType ProductType     `json:"product_type" binding:"required"`
	ProductId   int             `json:"product_id" binding:"required"`
	Qty         int             `json:"qty" binding:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

func (input *NewPurchaseOrder) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return utils.NewValidationError("supplier_id", "supplier not found")
	}
	if err := utils.ValidateResourceId[Warehouse](ctx, input.WarehouseId); err != nil {
		return utils.NewValidationError("warehouse_id", "warehouse not found")
	}
	if len(input.Details) == 0 {
		return utils.NewValidationError("details", "order needs at least one line")
	}
	for _, d := range input.Details {
		if !d.ProductType.IsValid() {
			return utils.NewValidationError("details", "unknown product type")
		}
		if d.Qty < 1 {
			return utils.NewValidationError("details", "qty must be a positive integer")
		}
		if d.UnitCost.IsNegative() {
			return utils.NewValidationError("details", "unit cost must not be negative")
		}
		if d.ProductType == ProductTypeVariant {
			if err := utils.ValidateResourceId[ProductVariant](ctx, d.ProductId); err != nil {
				return utils.NewValidationError("details", "variant not found")
			}
		} else {
			if err := utils.ValidateResourceId[Product](ctx, d.ProductId); err != nil {
				return utils.NewValidationError("details", "product not found")
			}
		}
	}
	return nil
}

// buildDetails resolves product names and merges duplicate lines.
func (input *NewPurchaseOrder) buildDetails(ctx context.Context) ([]PurchaseOrderDetail, error) {
	var details []PurchaseOrderDetail
	for _, d := range input.Details {
		detail := PurchaseOrderDetail{
			ProductType: d.ProductType,
			ProductId:   d.ProductId,
			Qty:         d.Qty,
			UnitCost:    d.UnitCost,
		}
		if d.ProductType == ProductTypeVariant {
			variant, err := utils.FetchModel[ProductVariant](ctx, d.ProductId)
			if err != nil {
				return nil, err
			}
			detail.ProductName = variant.Name
			detail.Sku = variant.Sku
		} else {
			product, err := utils.FetchModel[Product](ctx, d.ProductId)
			if err != nil {
				return nil, err
			}
			detail.ProductName = product.Name
			detail.Sku = product.Sku
		}
		details = MergeOrderDetail(details, detail)
	}
	return details, nil
}

func nextOrderNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Model(&PurchaseOrder{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PO-%06d", count+1), nil
}

// orderDateOrNow fills in a missing order date; clients may omit it
// on both create and update.
func orderDateOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	details, err := input.buildDetails(ctx)
	if err != nil {
		return nil, err
	}

	orderDate := orderDateOrNow(input.OrderDate)

	userId, _ := utils.GetUserIdFromContext(ctx)

	order := PurchaseOrder{
		SupplierId:    input.SupplierId,
		WarehouseId:   input.WarehouseId,
		OrderDate:     orderDate,
		ExpectedDate:  input.ExpectedDate,
		CurrentStatus: PurchaseOrderStatusDraft,
		TotalAmount:   OrderTotal(details),
		Notes:         input.Notes,
		CreatedBy:     userId,
		Details:       details,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePurchaseOrder replaces lines and header fields of an order
// that is still editable. Received and cancelled orders are frozen.
func UpdatePurchaseOrder(ctx context.Context, id int, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus.IsTerminal() {
		return nil, utils.ErrorInvalidState
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	details, err := input.buildDetails(ctx)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].PurchaseOrderId = id
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).
			Delete(&PurchaseOrderDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"SupplierId":   input.SupplierId,
			"WarehouseId":  input.WarehouseId,
			"OrderDate":    orderDateOrNow(input.OrderDate),
			"ExpectedDate": input.ExpectedDate,
			"Notes":        input.Notes,
			"TotalAmount":  OrderTotal(details),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	order.Details = details
	return order, nil
}

func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus == PurchaseOrderStatusReceived {
		return nil, utils.ErrorInvalidState
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).
			Delete(&PurchaseOrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return utils.FetchModel[PurchaseOrder](ctx, id, "Supplier", "Warehouse", "Details")
}

type PurchaseOrderFilter struct {
	Status   *PurchaseOrderStatus
	Supplier *int
	From     *time.Time
	To       *time.Time
}

func ListPurchaseOrder(ctx context.Context, filter PurchaseOrderFilter) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Details").Order("id DESC")
	if filter.Status != nil {
		dbCtx = dbCtx.Where("current_status = ?", *filter.Status)
	}
	if filter.Supplier != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *filter.Supplier)
	}
	if filter.From != nil {
		dbCtx = dbCtx.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		dbCtx = dbCtx.Where("order_date <= ?", *filter.To)
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdatePurchaseOrderStatus moves an order between workflow states.
// Receiving is not done here; workflow.ReceivePurchaseOrder posts the
// stock and sets Received itself.
func UpdatePurchaseOrderStatus(ctx context.Context, id int, status PurchaseOrderStatus) (*PurchaseOrder, error) {
	if !status.IsValid() {
		return nil, utils.NewValidationError("status", "unknown status")
	}
	if status == PurchaseOrderStatusReceived {
		return nil, utils.NewValidationError("status", "use the receive operation")
	}

	order, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus.IsTerminal() {
		return nil, utils.ErrorInvalidState
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&order).
		Update("current_status", status).Error; err != nil {
		return nil, err
	}
	order.CurrentStatus = status
	return order, nil
}
