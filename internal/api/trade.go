package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations and trade dates

	"brokerage_backoffice/internal/domain"  // Domain models
	"brokerage_backoffice/internal/service" // Service layer
	"brokerage_backoffice/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// TradeRequest is the trade-entry payload. Dates are ISO 8601.
type TradeRequest struct {
	TradeDate        time.Time `json:"tradeDate" binding:"required"`         // Trade date
	SettlementDate   time.Time `json:"settlementDate" binding:"required"`    // Settlement date
	StockType        string    `json:"stockType" binding:"required"`         // equity or fixedIncome
	Position         string    `json:"position" binding:"required"`          // buy or sell
	SettlementAmt    float64   `json:"settlementAmt" binding:"required,gte=1"` // Settlement amount, at least 1
	CustodyAccountID uint      `json:"custodyAccountId" binding:"required"`  // Account to book the trade on
}

// CreateTradeHandler books a trade: balance recompute and trade creation
// happen atomically in the service layer. Guard violations (insufficient
// cash to buy, insufficient asset to sell) are rejected with the exact
// user-facing message before anything is written.
func CreateTradeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TradeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		position := domain.Position(req.Position)
		stockType := domain.StockType(req.StockType)
		// Validate the enum fields beyond presence
		if !position.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidPosition.Error()})
			return
		}
		if !stockType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidStockType.Error()})
			return
		}
		trade, err := service.EnterTrade(db, service.TradeInput{
			TradeDate:        req.TradeDate,
			SettlementDate:   req.SettlementDate,
			Position:         position,
			StockType:        stockType,
			SettlementAmt:    decimal.NewFromFloat(req.SettlementAmt),
			CustodyAccountID: req.CustodyAccountID,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInsufficientCash),
				errors.Is(err, service.ErrInsufficientEquity),
				errors.Is(err, service.ErrInsufficientFixedIncome),
				errors.Is(err, service.ErrInvalidAmount):
				// Domain guard rejection, nothing was written
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"account_id": req.CustodyAccountID, // Account ID
					"position":   req.Position,         // buy or sell
					"stock_type": req.StockType,        // Asset class
					"amount":     req.SettlementAmt,    // Settlement amount
					"error":      err.Error(),          // Error message
				}).Error("Trade entry failed") // Log trade failure
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Trade entry failed"})
			}
			return
		}
		// Log successful trade entry
		logrus.WithFields(logrus.Fields{
			"trade_id":   trade.ID,                        // Created trade ID
			"account_id": trade.CustodyAccountID,          // Account ID
			"position":   trade.Position,                  // buy or sell
			"stock_type": trade.StockType,                 // Asset class
			"amount":     trade.SettlementAmt,             // Settlement amount
			"timestamp":  time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Trade booked") // Log trade success
		// Invalidate affected dashboard and client list caches
		invalidateDashboards(db, rdb, trade.CustodyAccountID)
		_ = utils.DeleteCache(context.Background(), rdb, clientListCacheKey)
		c.JSON(http.StatusCreated, trade)
	}
}

// ListTradesHandler returns all trades, with optional filtering by account,
// position, stock type or trade date range
func ListTradesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		// Append each query parameter to the key parts
		for _, k := range []string{"account_id", "position", "stock_type", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		// Join key parts to form the final cache key
		cacheKey := "trades:" + strings.Join(keyParts, ":")
		var cached struct {
			Trades     []domain.Trade `json:"trades"`      // List of trades
			Page       int            `json:"page"`        // Current page
			PageSize   int            `json:"page_size"`   // Page size
			Total      int64          `json:"total"`       // Total number of trades
			TotalPages int            `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"trades":      cached.Trades,     // List of trades
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of trades
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		// Check and set page number from query params
		if p := c.Query("page"); p != "" {
			// If valid, set page number
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		filter := service.TradeFilter{
			AccountID: c.Query("account_id"), // Filter by custody account
			Position:  c.Query("position"),   // Filter by buy/sell
			StockType: c.Query("stock_type"), // Filter by asset class
			From:      c.Query("from"),       // Trade date lower bound
			To:        c.Query("to"),         // Trade date upper bound
		}
		trades, total, err := service.ListTrades(db, filter, page, pageSize)
		if err != nil {
			// If error occurs, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades"})
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"trades":      trades,     // List of trades
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of trades
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}
