package service

import (
	"fmt"
	"testing"

	"brokerage_backoffice/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated to the current schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Client{}, &domain.Account{}, &domain.Trade{}))
	return db
}

// seedClientAccount creates a client with a custody account holding the
// given balances
func seedClientAccount(t *testing.T, db *gorm.DB, cash, equity, fixedIncome int64) (*domain.Client, *domain.Account) {
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

// seedUser creates a user attached to the given client
func seedUser(t *testing.T, db *gorm.DB, email string, clientID *uint) *domain.User {
	t.Helper()
	user := domain.User{
		Email:     email,
		FirstName: "Jordan",
		LastName:  "Miller",
		Password:  "$2a$10$notarealhashnotarealhashnotarealhashab",
		Role:      domain.RoleClient,
		ClientID:  clientID,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// requireDecimalEqual fails unless got equals the integer amount want
func requireDecimalEqual(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "%s: want %d, got %s", msg, want, got)
}
