package models

import (
	"log"

	"github.com/stitchcraft/pos_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Supplier{},
		&Warehouse{},
		&Product{}, &ProductVariant{},
		&StockLevel{}, &StockMovement{},
		&PurchaseOrder{}, &PurchaseOrderDetail{},
		&PosReceipt{}, &PosReceiptDetail{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
