package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brokerage_backoffice/internal/domain"
	"brokerage_backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupAPITest wires the trade routes against an in-memory database and an
// unreachable Redis: cache reads miss and invalidations fail silently, which
// is exactly the degraded mode the handlers tolerate.
func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Client{}, &domain.Account{}, &domain.Trade{}))
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	r := gin.New()
	r.POST("/api/trades", CreateTradeHandler(db, rdb))
	r.GET("/api/users/trades/:userId", GetUserTradesHandler(db, rdb))
	return r, db
}

func seedAccount(t *testing.T, db *gorm.DB, cash, equity, fixedIncome int64) (*domain.Client, *domain.Account) {
	t.Helper()
	client := domain.Client{Name: "Acme Capital", Type: "institutional"}
	require.NoError(t, db.Create(&client).Error)
	acct := domain.Account{
		ClientID:       client.ID,
		CashBalance:    decimal.NewFromInt(cash),
		EquityBalance:  decimal.NewFromInt(equity),
		FixedIncomeBal: decimal.NewFromInt(fixedIncome),
	}
	require.NoError(t, db.Create(&acct).Error)
	return &client, &acct
}

func postTrade(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/trades", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tradeBody(acctID uint, position, stockType string, amt float64) string {
	return fmt.Sprintf(`{
		"tradeDate": "2024-03-11T00:00:00Z",
		"settlementDate": "2024-03-13T00:00:00Z",
		"position": %q,
		"stockType": %q,
		"settlementAmt": %v,
		"custodyAccountId": %d
	}`, position, stockType, amt, acctID)
}

func TestCreateTradeHandlerBuyEquity(t *testing.T) {
	r, db := setupAPITest(t)
	_, acct := seedAccount(t, db, 1000, 0, 0)

	w := postTrade(t, r, tradeBody(acct.ID, "buy", "equity", 400))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var trade domain.Trade
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trade))
	require.NotZero(t, trade.ID)
	require.Equal(t, domain.PositionBuy, trade.Position)
	require.Equal(t, domain.StockTypeEquity, trade.StockType)
	require.True(t, trade.SettlementAmt.Equal(decimal.NewFromInt(400)))

	var after domain.Account
	require.NoError(t, db.First(&after, acct.ID).Error)
	require.True(t, after.CashBalance.Equal(decimal.NewFromInt(600)), "cash: %s", after.CashBalance)
	require.True(t, after.EquityBalance.Equal(decimal.NewFromInt(400)), "equity: %s", after.EquityBalance)
}

func TestCreateTradeHandlerInsufficientCash(t *testing.T) {
	r, db := setupAPITest(t)
	_, acct := seedAccount(t, db, 1000, 0, 0)

	w := postTrade(t, r, tradeBody(acct.ID, "buy", "equity", 1500))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Insufficient Cash to Buy", resp["error"])

	// Nothing was written
	var after domain.Account
	require.NoError(t, db.First(&after, acct.ID).Error)
	require.True(t, after.CashBalance.Equal(decimal.NewFromInt(1000)))
	var n int64
	require.NoError(t, db.Model(&domain.Trade{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}

func TestCreateTradeHandlerInsufficientEquity(t *testing.T) {
	r, db := setupAPITest(t)
	_, acct := seedAccount(t, db, 1000, 100, 0)

	w := postTrade(t, r, tradeBody(acct.ID, "sell", "equity", 400))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Insufficient Equity to Sell", resp["error"])
}

func TestCreateTradeHandlerInvalidEnums(t *testing.T) {
	r, db := setupAPITest(t)
	_, acct := seedAccount(t, db, 1000, 0, 0)

	w := postTrade(t, r, tradeBody(acct.ID, "hold", "equity", 100))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postTrade(t, r, tradeBody(acct.ID, "buy", "bond", 100))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTradeHandlerRejectsAmountBelowOne(t *testing.T) {
	r, db := setupAPITest(t)
	_, acct := seedAccount(t, db, 1000, 0, 0)

	w := postTrade(t, r, tradeBody(acct.ID, "buy", "equity", 0.5))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTradeHandlerAccountNotFound(t *testing.T) {
	r, _ := setupAPITest(t)

	w := postTrade(t, r, tradeBody(99999, "buy", "equity", 100))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserTradesHandler(t *testing.T) {
	r, db := setupAPITest(t)
	client, acct := seedAccount(t, db, 1000, 0, 0)
	user := domain.User{
		Email:     "trader@acme.test",
		FirstName: "Jordan",
		LastName:  "Miller",
		Password:  "$2a$10$notarealhashnotarealhashnotarealhashab",
		Role:      domain.RoleClient,
		ClientID:  &client.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	w := postTrade(t, r, tradeBody(acct.ID, "buy", "equity", 400))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/trades/%d", user.ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	require.Equal(t, client.Name, dash.UserClient.Name)
	require.Equal(t, acct.ID, dash.UserClient.Account.ID)
	require.True(t, dash.UserClient.Account.CashBalance.Equal(decimal.NewFromInt(600)))
	require.Len(t, dash.UserClient.Account.Trades, 1)
}

func TestGetUserTradesHandlerUnknownUser(t *testing.T) {
	r, _ := setupAPITest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/trades/424242", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
