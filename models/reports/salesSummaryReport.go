package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchcraft/pos_backend/config"
)

type SalesSummaryRow struct {
	Day          string          `json:"day"`
	ReceiptCount int             `json:"receipt_count"`
	UnitsSold    int             `json:"units_sold"`
	GrossSales   decimal.Decimal `json:"gross_sales"`
	Discounts    decimal.Decimal `json:"discounts"`
	Taxes        decimal.Decimal `json:"taxes"`
	NetSales     decimal.Decimal `json:"net_sales"`
}

// GetSalesSummaryReport returns per-day sales totals for the range.
func GetSalesSummaryReport(ctx context.Context, fromDate time.Time, toDate time.Time) ([]*SalesSummaryRow, error) {

	sql := `
SELECT
    rs.day,
    rs.receipt_count,
    COALESCE(ds.units_sold, 0) AS units_sold,
    rs.gross_sales,
    rs.discounts,
    rs.taxes,
    rs.net_sales
FROM
    (SELECT
        DATE_FORMAT(created_at, '%Y-%m-%d') AS day,
            COUNT(id) AS receipt_count,
            SUM(sub_total) AS gross_sales,
            SUM(discount_amount) AS discounts,
            SUM(tax_amount) AS taxes,
            SUM(total_amount) AS net_sales
    FROM
        pos_receipts
    WHERE
        created_at BETWEEN @fromDate AND @toDate
    GROUP BY day) AS rs
        LEFT JOIN
    (SELECT
        DATE_FORMAT(r.created_at, '%Y-%m-%d') AS day,
            SUM(d.qty) AS units_sold
    FROM
        pos_receipt_details d
    JOIN pos_receipts r ON r.id = d.pos_receipt_id
    WHERE
        r.created_at BETWEEN @fromDate AND @toDate
    GROUP BY day) AS ds ON ds.day = rs.day
ORDER BY rs.day;
`

	var rows []*SalesSummaryRow
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": fromDate,
		"toDate":   toDate,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
