package domain

import "github.com/shopspring/decimal"

// Account Model (custody account, one per client)
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	ClientID       uint            `gorm:"uniqueIndex" json:"clientId"`                          // Foreign key to Client
	CashBalance    decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0" json:"cashBalance"`    // Cash balance
	EquityBalance  decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0" json:"equityBalance"`  // Equity balance
	FixedIncomeBal decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0" json:"fixedIncomeBal"` // Fixed income balance
	Trades         []Trade         `gorm:"foreignKey:CustodyAccountID" json:"trade,omitempty"`   // Trades booked on this account
}
