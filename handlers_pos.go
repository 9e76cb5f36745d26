package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
	"github.com/stitchcraft/pos_backend/workflow"
)

// posQuoteHandler prices a cart without committing anything, for the
// running total the register shows while scanning.
func posQuoteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPosSale
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		if input.DiscountType == "" {
			input.DiscountType = models.DiscountTypePercent
		}
		applyDefaultTaxRate(&input)

		totals, err := workflow.QuotePosSale(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": totals})
	}
}

func posCheckoutHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPosSale
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}

		applyDefaultTaxRate(&input)

		receipt, err := workflow.CommitPosSale(c.Request.Context(), logger, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": receipt})
	}
}

// applyDefaultTaxRate fills in the store-wide tax rate (POS_TAX_RATE,
// percent) when the register did not send one.
func applyDefaultTaxRate(input *models.NewPosSale) {
	if !input.TaxRate.IsZero() {
		return
	}
	if v := os.Getenv("POS_TAX_RATE"); v != "" {
		if rate, err := utils.ParseDecimal(v); err == nil && !rate.IsNegative() {
			input.TaxRate = rate
		}
	}
}

func listReceiptsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.PosReceiptFilter
		if v := c.Query("cashier_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				filter.CashierId = &id
			}
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

		receipts, err := models.ListPosReceipt(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": receipts})
	}
}

// Accepts either a numeric id or a receipt number like R-<uuid>.
func getReceiptHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		param := c.Param("id")
		var receipt *models.PosReceipt
		var err error
		if id, convErr := strconv.Atoi(param); convErr == nil && id > 0 {
			receipt, err = models.GetPosReceipt(c.Request.Context(), id)
		} else {
			receipt, err = models.GetPosReceiptByNumber(c.Request.Context(), param)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": receipt})
	}
}
