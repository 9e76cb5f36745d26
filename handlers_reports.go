package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stitchcraft/pos_backend/models/reports"
)

func dashboardReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := reports.GetDashboardReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": report})
	}
}

func salesSummaryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		from := now.AddDate(0, 0, -30)
		to := now
		if v := c.Query("from"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
				return
			}
			from = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
				return
			}
			// inclusive end of day
			to = t.Add(24*time.Hour - time.Nanosecond)
		}

		rows, err := reports.GetSalesSummaryReport(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}
