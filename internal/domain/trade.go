package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the buy/sell direction of a trade.
type Position string

const (
	PositionBuy  Position = "buy"
	PositionSell Position = "sell"
)

func (p Position) String() string { return string(p) }
func (p Position) Valid() bool {
	return p == PositionBuy || p == PositionSell
}

// StockType is the asset class of a trade.
type StockType string

const (
	StockTypeEquity      StockType = "equity"
	StockTypeFixedIncome StockType = "fixedIncome"
)

func (s StockType) String() string { return string(s) }
func (s StockType) Valid() bool {
	return s == StockTypeEquity || s == StockTypeFixedIncome
}

// Trade Model (immutable once created)
type Trade struct {
	ID               uint            `gorm:"primaryKey" json:"id"`                          // Primary key
	TradeDate        time.Time       `gorm:"not null" json:"tradeDate"`                     // Trade date
	SettlementDate   time.Time       `gorm:"not null" json:"settlementDate"`                // Settlement date
	Position         Position        `gorm:"type:varchar(8);not null" json:"position"`      // buy or sell
	StockType        StockType       `gorm:"type:varchar(16);not null" json:"stockType"`    // equity or fixedIncome
	SettlementAmt    decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"settlementAmt"` // Settlement amount
	CustodyAccountID uint            `gorm:"index;not null" json:"custodyAccountId"`        // Foreign key to Account
	CreatedAt        int64           `gorm:"autoCreateTime:milli" json:"-"`                 // Timestamp of creation in milliseconds
}
