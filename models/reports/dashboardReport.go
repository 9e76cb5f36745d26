package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
	"github.com/stitchcraft/pos_backend/models"
)

type DashboardResponse struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayReceiptCount int             `json:"today_receipt_count"`
	ProductCount      int             `json:"product_count"`
	LowStockCount     int             `json:"low_stock_count"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	OpenOrderCount    int             `json:"open_order_count"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
}

// GetDashboardReport aggregates the numbers shown on the landing page.
func GetDashboardReport(ctx context.Context) (*DashboardResponse, error) {
	db := config.GetDB()
	resp := DashboardResponse{}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	salesSql := `
SELECT
    COALESCE(SUM(total_amount), 0) AS today_sales,
    COUNT(id) AS today_receipt_count
FROM
    pos_receipts
WHERE
    created_at >= @startOfDay;
`
	var sales struct {
		TodaySales        decimal.Decimal
		TodayReceiptCount int
	}
	if err := db.WithContext(ctx).Raw(salesSql, map[string]interface{}{"startOfDay": startOfDay}).
		Scan(&sales).Error; err != nil {
		return nil, err
	}
	resp.TodaySales = sales.TodaySales
	resp.TodayReceiptCount = sales.TodayReceiptCount

	stockSql := `
SELECT
    COUNT(id) AS product_count,
    COALESCE(SUM(CASE WHEN stock_level > 0 AND stock_level <= low_stock_threshold THEN 1 ELSE 0 END), 0) AS low_stock_count,
    COALESCE(SUM(CASE WHEN stock_level = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_count,
    COALESCE(SUM(cost * stock_level), 0) AS inventory_value
FROM
    products
WHERE
    is_active = 1;
`
	var stock struct {
		ProductCount    int
		LowStockCount   int
		OutOfStockCount int
		InventoryValue  decimal.Decimal
	}
	if err := db.WithContext(ctx).Raw(stockSql).Scan(&stock).Error; err != nil {
		return nil, err
	}
	resp.ProductCount = stock.ProductCount
	resp.LowStockCount = stock.LowStockCount
	resp.OutOfStockCount = stock.OutOfStockCount
	resp.InventoryValue = stock.InventoryValue

	var openOrders int64
	if err := db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("current_status IN ?", []models.PurchaseOrderStatus{
			models.PurchaseOrderStatusDraft,
			models.PurchaseOrderStatusPending,
			models.PurchaseOrderStatusApproved,
		}).Count(&openOrders).Error; err != nil {
		return nil, err
	}
	resp.OpenOrderCount = int(openOrders)

	return &resp, nil
}
