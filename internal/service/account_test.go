package service

import (
	"testing"

	"brokerage_backoffice/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpdateAccountBalancesPartial(t *testing.T) {
	db := newTestDB(t)
	_, acct := seedClientAccount(t, db, 1000, 200, 300)

	newCash := decimal.NewFromInt(750)
	updated, err := UpdateAccountBalances(db, acct.ID, BalancePatch{CashBalance: &newCash})
	require.NoError(t, err)
	requireDecimalEqual(t, 750, updated.CashBalance, "cash overwritten")
	// Absent fields are left untouched
	requireDecimalEqual(t, 200, updated.EquityBalance, "equity untouched")
	requireDecimalEqual(t, 300, updated.FixedIncomeBal, "fixed income untouched")
}

func TestUpdateAccountBalancesNotFound(t *testing.T) {
	db := newTestDB(t)

	v := decimal.NewFromInt(1)
	_, err := UpdateAccountBalances(db, 999, BalancePatch{CashBalance: &v})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetUserDashboard(t *testing.T) {
	db := newTestDB(t)
	client, acct := seedClientAccount(t, db, 1000, 0, 0)
	user := seedUser(t, db, "trader@acme.test", &client.ID)

	_, err := EnterTrade(db, tradeInput(acct.ID, domain.PositionBuy, domain.StockTypeEquity, 400))
	require.NoError(t, err)

	dash, err := GetUserDashboard(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, client.Name, dash.UserClient.Name)
	require.Equal(t, acct.ID, dash.UserClient.Account.ID)
	requireDecimalEqual(t, 600, dash.UserClient.Account.CashBalance, "dashboard cash")
	requireDecimalEqual(t, 400, dash.UserClient.Account.EquityBalance, "dashboard equity")
	require.Len(t, dash.UserClient.Account.Trades, 1)
	require.Equal(t, domain.PositionBuy, dash.UserClient.Account.Trades[0].Position)
}

func TestGetUserDashboardEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	client, _ := seedClientAccount(t, db, 1000, 0, 0)
	user := seedUser(t, db, "fresh@acme.test", &client.ID)

	dash, err := GetUserDashboard(db, user.ID)
	require.NoError(t, err)
	// Empty history is an empty list, never null
	require.NotNil(t, dash.UserClient.Account.Trades)
	require.Len(t, dash.UserClient.Account.Trades, 0)
}

func TestGetUserDashboardUserWithoutClient(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "orphan@acme.test", nil)

	_, err := GetUserDashboard(db, user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAccountUserIDs(t *testing.T) {
	db := newTestDB(t)
	client, acct := seedClientAccount(t, db, 0, 0, 0)
	u1 := seedUser(t, db, "one@acme.test", &client.ID)
	u2 := seedUser(t, db, "two@acme.test", &client.ID)
	seedUser(t, db, "other@elsewhere.test", nil)

	ids, err := AccountUserIDs(db, acct.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{u1.ID, u2.ID}, ids)
}
