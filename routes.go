package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/middlewares"
	"github.com/stitchcraft/pos_backend/utils"
	"github.com/stitchcraft/pos_backend/workflow"
)

func registerRoutes(r *gin.Engine, logger *logrus.Logger) {
	r.Static("/uploads", uploadRoot())

	api := r.Group("/api/v1")

	api.POST("/auth/login", loginHandler())

	authed := api.Group("", middlewares.RequireAuth())
	authed.GET("/auth/me", currentUserHandler())

	// POS surface, open to both roles
	authed.GET("/products", listProductsHandler())
	authed.GET("/products/:id", getProductHandler())
	authed.GET("/products/sku/:sku", getProductBySkuHandler())
	authed.GET("/products/:id/variants", listVariantsHandler())
	authed.GET("/products/:id/stock", productStockHandler())
	authed.POST("/pos/quote", posQuoteHandler())
	authed.POST("/pos/checkout", posCheckoutHandler(logger))
	authed.GET("/pos/receipts", listReceiptsHandler())
	authed.GET("/pos/receipts/:id", getReceiptHandler())

	// back office, managers only
	mgr := authed.Group("", middlewares.RequireManager())
	mgr.GET("/users", listUsersHandler())
	mgr.POST("/users", createUserHandler())

	mgr.POST("/products", createProductHandler())
	mgr.PUT("/products/:id", updateProductHandler())
	mgr.DELETE("/products/:id", deleteProductHandler())
	mgr.PATCH("/products/:id/active", toggleProductHandler())
	mgr.POST("/products/:id/image", uploadProductImageHandler(logger))
	mgr.POST("/products/:id/variants", createVariantHandler())
	mgr.PUT("/variants/:id", updateVariantHandler())
	mgr.DELETE("/variants/:id", deleteVariantHandler())
	mgr.GET("/products/export", exportInventoryHandler(logger))
	mgr.GET("/products/low-stock", lowStockAlertsHandler())
	mgr.GET("/inventory/movements", listMovementsHandler())
	mgr.POST("/inventory/restock", restockHandler(logger))
	mgr.POST("/inventory/adjust", adjustHandler(logger))

	mgr.GET("/warehouses", listWarehousesHandler())
	mgr.GET("/warehouses/:id", getWarehouseHandler())
	mgr.POST("/warehouses", createWarehouseHandler())
	mgr.PUT("/warehouses/:id", updateWarehouseHandler())
	mgr.DELETE("/warehouses/:id", deleteWarehouseHandler())
	mgr.PATCH("/warehouses/:id/default", setDefaultWarehouseHandler())
	mgr.PATCH("/warehouses/:id/active", toggleWarehouseHandler())
	mgr.GET("/warehouses/:id/stock", warehouseStockHandler())

	mgr.GET("/suppliers", listSuppliersHandler())
	mgr.GET("/suppliers/:id", getSupplierHandler())
	mgr.POST("/suppliers", createSupplierHandler())
	mgr.PUT("/suppliers/:id", updateSupplierHandler())
	mgr.DELETE("/suppliers/:id", deleteSupplierHandler())
	mgr.PATCH("/suppliers/:id/active", toggleSupplierHandler())

	mgr.GET("/reports/dashboard", dashboardReportHandler())
	mgr.GET("/reports/sales-summary", salesSummaryReportHandler())

	mgr.GET("/purchase-orders", listPurchaseOrdersHandler())
	mgr.GET("/purchase-orders/:id", getPurchaseOrderHandler())
	mgr.POST("/purchase-orders", createPurchaseOrderHandler())
	mgr.PUT("/purchase-orders/:id", updatePurchaseOrderHandler())
	mgr.DELETE("/purchase-orders/:id", deletePurchaseOrderHandler())
	mgr.PATCH("/purchase-orders/:id/status", purchaseOrderStatusHandler())
	mgr.POST("/purchase-orders/:id/receive", receivePurchaseOrderHandler(logger))
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "operation not allowed in current state"})
	case errors.Is(err, workflow.ErrorInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
