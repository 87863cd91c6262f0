package service

import (
	"brokerage_backoffice/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal arithmetic for money
	"gorm.io/gorm"                  // GORM ORM library
)

// BalancePatch is a partial update of the three custody account balances;
// nil fields are left untouched
type BalancePatch struct {
	CashBalance    *decimal.Decimal // New cash balance
	EquityBalance  *decimal.Decimal // New equity balance
	FixedIncomeBal *decimal.Decimal // New fixed income balance
}

// Empty reports whether the patch carries no fields at all
func (p BalancePatch) Empty() bool {
	return p.CashBalance == nil && p.EquityBalance == nil && p.FixedIncomeBal == nil
}

// GetAccountByID returns a custody account. Missing id is NotFound.
func GetAccountByID(db *gorm.DB, id uint) (*domain.Account, error) {
	var acct domain.Account
	if err := db.First(&acct, id).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// UpdateAccountBalances applies a partial balance update to a custody
// account and returns the updated row. Missing id is NotFound.
func UpdateAccountBalances(db *gorm.DB, id uint, patch BalancePatch) (*domain.Account, error) {
	var acct domain.Account
	if err := db.First(&acct, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.CashBalance != nil {
		updates["cash_balance"] = *patch.CashBalance
	}
	if patch.EquityBalance != nil {
		updates["equity_balance"] = *patch.EquityBalance
	}
	if patch.FixedIncomeBal != nil {
		updates["fixed_income_bal"] = *patch.FixedIncomeBal
	}
	if len(updates) > 0 {
		if err := db.Model(&acct).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetAccountByID(db, id)
}

// DashboardAccount is the account payload of the trades dashboard
type DashboardAccount struct {
	ID             uint            `json:"id"`             // Account ID
	CashBalance    decimal.Decimal `json:"cashBalance"`    // Cash balance
	EquityBalance  decimal.Decimal `json:"equityBalance"`  // Equity balance
	FixedIncomeBal decimal.Decimal `json:"fixedIncomeBal"` // Fixed income balance
	Trades         []domain.Trade  `json:"trade"`          // Trade history
}

// DashboardClient is the client payload of the trades dashboard
type DashboardClient struct {
	Name    string           `json:"name"`    // Client display name
	Account DashboardAccount `json:"account"` // Custody account with trades
}

// Dashboard is the payload of GET /api/users/trades/:userId
type Dashboard struct {
	UserClient DashboardClient `json:"userClient"`
}

// GetUserDashboard resolves the signed-in user's client, custody account and
// trade history in one shot. A user without a client or a client without an
// account both surface as NotFound.
func GetUserDashboard(db *gorm.DB, userID uint) (*Dashboard, error) {
	var user domain.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	if user.ClientID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var client domain.Client
	if err := db.Preload("Account.Trades").First(&client, *user.ClientID).Error; err != nil {
		return nil, err
	}
	if client.Account == nil {
		return nil, gorm.ErrRecordNotFound
	}
	trades := client.Account.Trades
	if trades == nil {
		trades = []domain.Trade{} // Empty history serializes as [], not null
	}
	return &Dashboard{
		UserClient: DashboardClient{
			Name: client.Name,
			Account: DashboardAccount{
				ID:             client.Account.ID,
				CashBalance:    client.Account.CashBalance,
				EquityBalance:  client.Account.EquityBalance,
				FixedIncomeBal: client.Account.FixedIncomeBal,
				Trades:         trades,
			},
		},
	}, nil
}

// AccountUserIDs returns the ids of all users belonging to the account's
// client, used to invalidate their cached dashboards after a balance change
func AccountUserIDs(db *gorm.DB, accountID uint) ([]uint, error) {
	var acct domain.Account
	if err := db.First(&acct, accountID).Error; err != nil {
		return nil, err
	}
	var users []domain.User
	if err := db.Where("client_id = ?", acct.ClientID).Find(&users).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}
