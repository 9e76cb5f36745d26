package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"github.com/stitchcraft/pos_backend/workflow"
)

func restockHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.RestockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		movement, err := workflow.Restock(c.Request.Context(), logger, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": movement})
	}
}

func adjustHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.AdjustInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		movement, err := workflow.Adjust(c.Request.Context(), logger, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": movement})
	}
}

func listMovementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.StockMovementFilter
		if v := c.Query("product_type"); v != "" {
			productType := models.ProductType(v)
			filter.ProductType = &productType
		}
		if v := c.Query("product_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				filter.ProductId = &id
			}
		}
		if v := c.Query("warehouse_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				filter.WarehouseId = &id
			}
		}
		if v := c.Query("movement_type"); v != "" {
			movementType := models.MovementType(v)
			filter.MovementType = &movementType
		}
		if v := c.Query("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.From = &t
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.To = &t
			}
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		movements, err := models.ListStockMovement(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": movements})
	}
}
