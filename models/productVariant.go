package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

// ProductVariant is a sellable variation of a parent product, e.g. a
// size/colour combination. Variants carry their own sku, price and
// cached stock, and participate in the stock ledger with product type
// "V".
type ProductVariant struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ProductId  int             `gorm:"index;not null" json:"product_id"`
	Sku        string          `gorm:"size:100;not null;unique" json:"sku" binding:"required"`
	Name       string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Attributes AttributeMap    `gorm:"type:json" json:"attributes"`
	Price      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Cost       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost"`
	StockLevel int             `gorm:"not null;default:0" json:"stock_level"`
	IsActive   *bool           `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductVariant struct {
	Sku        string          `json:"sku" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Attributes AttributeMap    `json:"attributes"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
}

func (input *NewProductVariant) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[ProductVariant](ctx, "sku", input.Sku, id); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Product](ctx, "sku", input.Sku, 0); err != nil {
		return utils.NewValidationError("sku", "sku already used by a product")
	}
	if input.Price.IsNegative() {
		return utils.NewValidationError("price", "must not be negative")
	}
	if input.Cost.IsNegative() {
		return utils.NewValidationError("cost", "must not be negative")
	}
	return nil
}

func CreateProductVariant(ctx context.Context, productId int, input *NewProductVariant) (*ProductVariant, error) {
	if err := utils.ValidateResourceId[Product](ctx, productId); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	attributes := input.Attributes
	if attributes == nil {
		attributes = AttributeMap{}
	}

	variant := ProductVariant{
		ProductId:  productId,
		Sku:        input.Sku,
		Name:       input.Name,
		Attributes: attributes,
		Price:      input.Price,
		Cost:       input.Cost,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		return tx.Model(&Product{}).Where("id = ?", productId).
			Update("has_variants", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func UpdateProductVariant(ctx context.Context, id int, input *NewProductVariant) (*ProductVariant, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	variant, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, err
	}

	attributes := input.Attributes
	if attributes == nil {
		attributes = AttributeMap{}
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&variant).Updates(map[string]interface{}{
		"Sku":        input.Sku,
		"Name":       input.Name,
		"Attributes": attributes,
		"Price":      input.Price,
		"Cost":       input.Cost,
	}).Error
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func DeleteProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	db := config.GetDB()
	variant, err := utils.FetchModel[ProductVariant](ctx, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&PurchaseOrderDetail{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_details.purchase_order_id").
		Where("purchase_order_details.product_id = ? AND purchase_order_details.product_type = ? AND purchase_orders.current_status NOT IN ?",
			id, ProductTypeVariant,
			[]PurchaseOrderStatus{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("id", "variant is on open purchase orders")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_type = ? AND product_id = ?", ProductTypeVariant, id).
			Delete(&StockLevel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&variant).Error; err != nil {
			return err
		}
		var remaining int64
		if err := tx.Model(&ProductVariant{}).
			Where("product_id = ?", variant.ProductId).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&Product{}).Where("id = ?", variant.ProductId).
				Update("has_variants", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

func GetProductVariant(ctx context.Context, id int) (*ProductVariant, error) {
	return utils.FetchModel[ProductVariant](ctx, id)
}

func ListProductVariant(ctx context.Context, productId int) ([]*ProductVariant, error) {
	db := config.GetDB()
	var results []*ProductVariant
	err := db.WithContext(ctx).Where("product_id = ?", productId).
		Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
