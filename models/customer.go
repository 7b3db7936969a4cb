package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a regular buyer with a running ledger balance.
type Customer struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"not null"`
	Phone          string
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
}

func (c *Customer) TableName() string {
	return "customers"
}

// CustomerLedgerEntry records one transaction against a customer balance.
// For sales the description holds the full invoice text so the ledger can be
// read standalone.
type CustomerLedgerEntry struct {
	ID              uint            `gorm:"primaryKey"`
	CustomerID      uint            `gorm:"index;not null"`
	TransactionType string          `gorm:"not null"`
	Reference       string          `gorm:"index;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description     string          `gorm:"type:text"`
	CreatedAt       time.Time
}

func (e *CustomerLedgerEntry) TableName() string {
	return "customer_ledger_entries"
}
