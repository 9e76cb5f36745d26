package models

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/utils"
	"gorm.io/gorm"
)

type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Sku         string          `gorm:"size:100;not null;unique" json:"sku" binding:"required"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Category    ProductCategory `gorm:"size:50;not null" json:"category"`
	Attributes  AttributeMap    `gorm:"type:json" json:"attributes"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost"`
	// StockLevel is the cached on-hand total across warehouses.
	// Only the stock ledger (workflow package) writes it.
	StockLevel        int    `gorm:"not null;default:0" json:"stock_level"`
	LowStockThreshold int    `gorm:"not null;default:1" json:"low_stock_threshold"`
	SupplierId        int    `gorm:"index;not null" json:"supplier_id"`
	ImageUrl          string `gorm:"size:255" json:"image_url"`
	HasVariants       *bool  `gorm:"not null;default:false" json:"has_variants"`
	IsActive          *bool  `gorm:"not null;default:true" json:"is_active"`

	Supplier  *Supplier        `gorm:"foreignkey:SupplierId" json:"supplier,omitempty"`
	Variants  []ProductVariant `gorm:"foreignkey:ProductId" json:"variants,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockStatus derives the badge shown in inventory tables and alerts.
func (p Product) StockStatus() StockStatus {
	return ClassifyStock(p.StockLevel, p.LowStockThreshold)
}

type NewProduct struct {
	Sku               string            `json:"sku" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	Description       string            `json:"description"`
	Category          ProductCategory   `json:"category" binding:"required"`
	Attributes        AttributeMap      `json:"attributes"`
	Price             decimal.Decimal   `json:"price"`
	Cost              decimal.Decimal   `json:"cost"`
	LowStockThreshold int               `json:"low_stock_threshold" binding:"required,min=1"`
	SupplierId        int               `json:"supplier_id" binding:"required"`
	OpeningStocks     []NewOpeningStock `json:"opening_stocks"`
}

type NewOpeningStock struct {
	WarehouseId int `json:"warehouse_id" binding:"required"`
	Qty         int `json:"qty" binding:"required,min=1"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Product](ctx, "sku", input.Sku, id); err != nil {
		return err
	}
	if !input.Category.IsValid() {
		return utils.NewValidationError("category", "unknown category")
	}
	if input.Price.IsNegative() {
		return utils.NewValidationError("price", "must not be negative")
	}
	if input.Cost.IsNegative() {
		return utils.NewValidationError("cost", "must not be negative")
	}
	if input.LowStockThreshold < 1 {
		return utils.NewValidationError("low_stock_threshold", "must be at least 1")
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return utils.NewValidationError("supplier_id", "supplier not found")
	}
	for _, os := range input.OpeningStocks {
		if os.Qty < 1 {
			return utils.NewValidationError("opening_stocks", "qty must be a positive integer")
		}
		if err := utils.ValidateResourceId[Warehouse](ctx, os.WarehouseId); err != nil {
			return utils.NewValidationError("opening_stocks", "warehouse not found")
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	attributes := input.Attributes
	if attributes == nil {
		attributes = AttributeMap{}
	}

	product := Product{
		Sku:               input.Sku,
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		Attributes:        attributes,
		Price:             input.Price,
		Cost:              input.Cost,
		LowStockThreshold: input.LowStockThreshold,
		SupplierId:        input.SupplierId,
		HasVariants:       utils.NewFalse(),
		IsActive:          utils.NewTrue(),
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		// opening stock posts through the same ledger path as restocks
		total := 0
		for _, os := range input.OpeningStocks {
			level, err := LockStockLevel(tx, ProductTypeSingle, product.ID, os.WarehouseId)
			if err != nil {
				return err
			}
			before := level.Qty
			after := before + os.Qty
			if err := WriteStockLevel(tx, level, after); err != nil {
				return err
			}
			movement := StockMovement{
				ProductType:  ProductTypeSingle,
				ProductId:    product.ID,
				WarehouseId:  os.WarehouseId,
				MovementType: MovementTypeRestock,
				Reason:       AdjustmentReasonPurchase,
				QtyBefore:    before,
				QtyAfter:     after,
				QtyChange:    after - before,
				Notes:        "opening stock",
				CreatedBy:    userId,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
			total += os.Qty
		}
		if total > 0 {
			if err := tx.Model(&product).Update("stock_level", total).Error; err != nil {
				return err
			}
			product.StockLevel = total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	attributes := input.Attributes
	if attributes == nil {
		attributes = AttributeMap{}
	}

	oldSku := product.Sku

	// stock_level is deliberately absent: only the ledger changes it
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Sku":               input.Sku,
		"Name":              input.Name,
		"Description":       input.Description,
		"Category":          input.Category,
		"Attributes":        attributes,
		"Price":             input.Price,
		"Cost":              input.Cost,
		"LowStockThreshold": input.LowStockThreshold,
		"SupplierId":        input.SupplierId,
	}).Error
	if err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(productSkuCacheKey(oldSku), productSkuCacheKey(input.Sku))

	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&PurchaseOrderDetail{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_details.purchase_order_id").
		Where("purchase_order_details.product_id = ? AND purchase_order_details.product_type = ? AND purchase_orders.current_status NOT IN ?",
			id, ProductTypeSingle,
			[]PurchaseOrderStatus{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("id", "product is on open purchase orders")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_type = ? AND product_id = ?", ProductTypeSingle, id).
			Delete(&StockLevel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(productSkuCacheKey(product.Sku))
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Supplier", "Variants")
}

const productSkuCacheTTL = time.Minute

func productSkuCacheKey(sku string) string {
	return "productBySku:" + sku
}

// GetProductBySku serves the register's barcode/sku lookup, so hits
// are cached briefly. Mutations on the product drop the cache entry.
func GetProductBySku(ctx context.Context, sku string) (*Product, error) {
	var cached Product
	if hit, err := config.GetRedisObject(productSkuCacheKey(sku), &cached); err == nil && hit {
		return &cached, nil
	}

	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).Preload("Variants").Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisObject(productSkuCacheKey(sku), &product, productSkuCacheTTL)
	return &product, nil
}

type ProductFilter struct {
	Search   string
	Category *ProductCategory
	Status   *StockStatus
	Supplier *int
}

func ListProduct(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Preload("Supplier")
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if filter.Category != nil {
		dbCtx = dbCtx.Where("category = ?", *filter.Category)
	}
	if filter.Supplier != nil {
		dbCtx = dbCtx.Where("supplier_id = ?", *filter.Supplier)
	}
	if filter.Status != nil {
		switch *filter.Status {
		case StockStatusOutOfStock:
			dbCtx = dbCtx.Where("stock_level = 0")
		case StockStatusLowStock:
			dbCtx = dbCtx.Where("stock_level > 0 AND stock_level <= low_stock_threshold")
		case StockStatusInStock:
			dbCtx = dbCtx.Where("stock_level > low_stock_threshold")
		}
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LowStockAlert feeds the dashboard alerts panel and restock picker.
type LowStockAlert struct {
	ProductId         int         `json:"product_id"`
	Sku               string      `json:"sku"`
	Name              string      `json:"name"`
	StockLevel        int         `json:"stock_level"`
	LowStockThreshold int         `json:"low_stock_threshold"`
	Status            StockStatus `json:"status"`
	Priority          string      `json:"priority"`
	SupplierId        int         `json:"supplier_id"`
	SuggestedQty      int         `json:"suggested_qty"`
}

// ListLowStockAlerts returns products at or below their threshold,
// out-of-stock first. Suggested reorder qty is twice the threshold
// minus what is still on hand.
func ListLowStockAlerts(ctx context.Context) ([]*LowStockAlert, error) {
	db := config.GetDB()
	var products []*Product
	err := db.WithContext(ctx).
		Where("is_active = ? AND stock_level <= low_stock_threshold", true).
		Order("stock_level ASC, name").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]*LowStockAlert, 0, len(products))
	for _, p := range products {
		status := p.StockStatus()
		if status == StockStatusInStock {
			// threshold 0 with positive stock
			continue
		}
		priority := "medium"
		if status == StockStatusOutOfStock {
			priority = "high"
		}
		suggested := p.LowStockThreshold*2 - p.StockLevel
		if suggested < 1 {
			suggested = 1
		}
		alerts = append(alerts, &LowStockAlert{
			ProductId:         p.ID,
			Sku:               p.Sku,
			Name:              p.Name,
			StockLevel:        p.StockLevel,
			LowStockThreshold: p.LowStockThreshold,
			Status:            status,
			Priority:          priority,
			SupplierId:        p.SupplierId,
			SuggestedQty:      suggested,
		})
	}
	return alerts, nil
}

func ToggleActiveProduct(ctx context.Context, id int, isActive bool) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&product).Update("is_active", isActive).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(productSkuCacheKey(product.Sku))
	return product, nil
}

// SetProductImage stores the uploaded image path after processing.
func SetProductImage(ctx context.Context, id int, imageUrl string) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&product).Update("image_url", imageUrl).Error; err != nil {
		return nil, err
	}
	product.ImageUrl = imageUrl
	_ = config.RemoveRedisKey(productSkuCacheKey(product.Sku))
	return product, nil
}
