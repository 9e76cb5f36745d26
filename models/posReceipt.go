package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
)

// PosReceipt is the finalized record of a point-of-sale checkout.
// It is written once by workflow.CommitPosSale and never edited.
type PosReceipt struct {
	ID             int             `gorm:"primary_key" json:"id"`
	ReceiptNumber  string          `gorm:"size:40;not null;unique" json:"receipt_number"`
	CashierId      int             `gorm:"index" json:"cashier_id"`
	WarehouseId    int             `gorm:"index;not null" json:"warehouse_id"`
	PaymentMethod  PaymentMethod   `gorm:"size:10;not null" json:"payment_method"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	DiscountType   DiscountType    `gorm:"size:1;default:'P'" json:"discount_type"`
	Discount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_rate"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	AmountTendered decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_tendered"`
	ChangeDue      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"change_due"`

	Details   []PosReceiptDetail `gorm:"foreignkey:PosReceiptId" json:"details,omitempty"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

type PosReceiptDetail struct {
	ID           int             `gorm:"primary_key" json:"id"`
	PosReceiptId int             `gorm:"index;not null" json:"pos_receipt_id"`
	ProductType  ProductType     `gorm:"size:1;not null" json:"product_type"`
	ProductId    int             `gorm:"not null" json:"product_id"`
	ProductName  string          `gorm:"size:100" json:"product_name"`
	Sku          string          `gorm:"size:100" json:"sku"`
	Qty          int             `gorm:"not null" json:"qty"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	LineAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewPosSale struct {
	WarehouseId    int              `json:"warehouse_id"`
	PaymentMethod  PaymentMethod    `json:"payment_method" binding:"required"`
	DiscountType   DiscountType     `json:"discount_type"`
	Discount       decimal.Decimal  `json:"discount"`
	TaxRate        decimal.Decimal  `json:"tax_rate"`
	AmountTendered decimal.Decimal  `json:"amount_tendered"`
	Items          []NewPosSaleItem `json:"items" binding:"required,dive"`
}

type NewPosSaleItem struct {
	ProductType ProductType `json:"product_type" binding:"required"`
	ProductId   int         `json:"product_id" binding:"required"`
	Qty         int         `json:"qty" binding:"required,min=1"`
}

// ReceiptTotals is the money breakdown of a cart before commit.
type ReceiptTotals struct {
	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ChangeDue      decimal.Decimal `json:"change_due"`
}

// ComputeReceiptTotals prices a cart. Discount applies to the
// subtotal, tax applies to the discounted amount, and change is
// tendered minus total (never negative).
func ComputeReceiptTotals(details []PosReceiptDetail, discountType DiscountType,
	discount decimal.Decimal, taxRate decimal.Decimal, amountTendered decimal.Decimal) ReceiptTotals {

	subTotal := decimal.Zero
	for _, d := range details {
		subTotal = subTotal.Add(d.LineAmount)
	}

	discountAmount := utils.CalculateDiscountAmount(subTotal, discount, string(discountType))
	if discountAmount.GreaterThan(subTotal) {
		// an amount discount larger than the cart zeroes it, never
		// produces a negative total
		discountAmount = subTotal
	}
	taxable := subTotal.Sub(discountAmount)
	taxAmount := utils.CalculateTaxAmount(taxable, taxRate, false)
	totalAmount := taxable.Add(taxAmount)

	changeDue := amountTendered.Sub(totalAmount)
	if changeDue.IsNegative() {
		changeDue = decimal.Zero
	}

	return ReceiptTotals{
		SubTotal:       subTotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		TotalAmount:    totalAmount,
		ChangeDue:      changeDue,
	}
}

func GetPosReceipt(ctx context.Context, id int) (*PosReceipt, error) {
	return utils.FetchModel[PosReceipt](ctx, id, "Details")
}

func GetPosReceiptByNumber(ctx context.Context, number string) (*PosReceipt, error) {
	db := config.GetDB()
	var receipt PosReceipt
	err := db.WithContext(ctx).Preload("Details").
		Where("receipt_number = ?", number).First(&receipt).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &receipt, nil
}

type PosReceiptFilter struct {
	CashierId *int
	From      *time.Time
	To        *time.Time
	Limit     int
}

func ListPosReceipt(ctx context.Context, filter PosReceiptFilter) ([]*PosReceipt, error) {
	db := config.GetDB()
	var results []*PosReceipt

	dbCtx := db.WithContext(ctx).Preload("Details").Order("id DESC")
	if filter.CashierId != nil {
		dbCtx = dbCtx.Where("cashier_id = ?", *filter.CashierId)
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
