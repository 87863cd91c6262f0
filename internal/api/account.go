package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"brokerage_backoffice/internal/service" // Service layer
	"brokerage_backoffice/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// UpdateAccountRequest is a partial update of the custody account balances;
// absent fields are left untouched, present fields must be non-negative
type UpdateAccountRequest struct {
	CashBalance    *float64 `json:"cashBalance" binding:"omitempty,gte=0"`    // New cash balance
	EquityBalance  *float64 `json:"equityBalance" binding:"omitempty,gte=0"`  // New equity balance
	FixedIncomeBal *float64 `json:"fixedIncomeBal" binding:"omitempty,gte=0"` // New fixed income balance
}

// invalidateDashboards drops the cached trades dashboard of every user
// belonging to the account's client after a balance change
func invalidateDashboards(db *gorm.DB, rdb *redis.Client, accountID uint) {
	userIDs, err := service.AccountUserIDs(db, accountID)
	if err != nil {
		return // Cache simply expires on its own
	}
	ctx := context.Background() // Context for Redis operations
	for _, id := range userIDs {
		_ = utils.DeleteCache(ctx, rdb, utils.DashboardKey(id)) // Invalidate dashboard cache
	}
}

// UpdateAccountHandler overwrites a subset of the three balances of a
// custody account
func UpdateAccountHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req UpdateAccountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var patch service.BalancePatch
		if req.CashBalance != nil {
			v := decimal.NewFromFloat(*req.CashBalance)
			patch.CashBalance = &v
		}
		if req.EquityBalance != nil {
			v := decimal.NewFromFloat(*req.EquityBalance)
			patch.EquityBalance = &v
		}
		if req.FixedIncomeBal != nil {
			v := decimal.NewFromFloat(*req.FixedIncomeBal)
			patch.FixedIncomeBal = &v
		}
		// At least one balance field must be present
		if patch.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No balance fields provided"})
			return
		}
		acct, err := service.UpdateAccountBalances(db, id, patch)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"account_id": id,          // Account ID
				"error":      err.Error(), // Error message
			}).Error("Balance update failed") // Log balance update failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
			return
		}
		// Log the balance overwrite
		logrus.WithFields(logrus.Fields{
			"account_id":       acct.ID,             // Account ID
			"cash_balance":     acct.CashBalance,    // Resulting cash balance
			"equity_balance":   acct.EquityBalance,  // Resulting equity balance
			"fixed_income_bal": acct.FixedIncomeBal, // Resulting fixed income balance
		}).Info("Account balances updated")
		// Invalidate affected dashboard and client list caches
		invalidateDashboards(db, rdb, acct.ID)
		_ = utils.DeleteCache(context.Background(), rdb, clientListCacheKey)
		c.JSON(http.StatusOK, acct)
	}
}
