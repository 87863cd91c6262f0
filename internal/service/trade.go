package service

import (
	"time" // Trade and settlement dates

	"brokerage_backoffice/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal arithmetic for money
	"gorm.io/gorm"                  // GORM ORM library
)

// TradeInput is the validated input of the trade-entry workflow
type TradeInput struct {
	TradeDate        time.Time        // Trade date
	SettlementDate   time.Time        // Settlement date
	Position         domain.Position  // buy or sell
	StockType        domain.StockType // equity or fixedIncome
	SettlementAmt    decimal.Decimal  // Settlement amount, at least 1
	CustodyAccountID uint             // Account to book the trade on
}

// EnterTrade books a trade against a custody account: it recomputes the
// account balances and creates the trade row inside a single database
// transaction, so a partial failure can never leave an updated balance
// without its trade record (or vice versa).
//
// Balance arithmetic:
//
//	buy  + equity:       cash -= amt; equity += amt
//	buy  + fixedIncome:  cash -= amt; fixedIncome += amt
//	sell + equity:       cash += amt; equity -= amt
//	sell + fixedIncome:  cash += amt; fixedIncome -= amt
//
// Both sides are guarded: a buy that would drive cash negative and a sell
// that would drive the sold asset negative abort before any write.
func EnterTrade(db *gorm.DB, in TradeInput) (*domain.Trade, error) {
	if !in.Position.Valid() {
		return nil, ErrInvalidPosition
	}
	if !in.StockType.Valid() {
		return nil, ErrInvalidStockType
	}
	if in.SettlementAmt.LessThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidAmount
	}
	var acct domain.Account
	if err := db.First(&acct, in.CustodyAccountID).Error; err != nil {
		return nil, err // NotFound propagates
	}
	amt := in.SettlementAmt
	// Guard checks before any write
	if in.Position == domain.PositionBuy {
		if acct.CashBalance.LessThan(amt) {
			return nil, ErrInsufficientCash
		}
	} else {
		if in.StockType == domain.StockTypeEquity && acct.EquityBalance.LessThan(amt) {
			return nil, ErrInsufficientEquity
		}
		if in.StockType == domain.StockTypeFixedIncome && acct.FixedIncomeBal.LessThan(amt) {
			return nil, ErrInsufficientFixedIncome
		}
	}
	assetCol := "equity_balance"
	if in.StockType == domain.StockTypeFixedIncome {
		assetCol = "fixed_income_bal"
	}
	trade := domain.Trade{
		TradeDate:        in.TradeDate,
		SettlementDate:   in.SettlementDate,
		Position:         in.Position,
		StockType:        in.StockType,
		SettlementAmt:    amt,
		CustodyAccountID: acct.ID,
	}
	// Atomic balance update plus trade creation
	err := db.Transaction(func(tx *gorm.DB) error {
		var updates map[string]any
		if in.Position == domain.PositionBuy {
			updates = map[string]any{
				"cash_balance": gorm.Expr("cash_balance - ?", amt),
				assetCol:       gorm.Expr(assetCol+" + ?", amt),
			}
		} else {
			updates = map[string]any{
				"cash_balance": gorm.Expr("cash_balance + ?", amt),
				assetCol:       gorm.Expr(assetCol+" - ?", amt),
			}
		}
		if err := tx.Model(&acct).Updates(updates).Error; err != nil {
			return err // Return error to rollback
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// TradeFilter narrows the admin trade listing
type TradeFilter struct {
	AccountID string // Filter by custody account
	Position  string // Filter by buy/sell
	StockType string // Filter by asset class
	From      string // Trade date lower bound
	To        string // Trade date upper bound
}

// ListTrades returns a page of trades matching the filter, newest first,
// along with the total match count
func ListTrades(db *gorm.DB, f TradeFilter, page, pageSize int) ([]domain.Trade, int64, error) {
	query := db.Model(&domain.Trade{}) // Start building the query
	if f.AccountID != "" {
		query = query.Where("custody_account_id = ?", f.AccountID)
	}
	if f.Position != "" {
		query = query.Where("position = ?", f.Position)
	}
	if f.StockType != "" {
		query = query.Where("stock_type = ?", f.StockType)
	}
	if f.From != "" {
		query = query.Where("trade_date >= ?", f.From)
	}
	if f.To != "" {
		query = query.Where("trade_date <= ?", f.To)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize // Calculate offset for pagination
	var trades []domain.Trade
	if err := query.Order("trade_date desc, id desc").Offset(offset).Limit(pageSize).Find(&trades).Error; err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}
