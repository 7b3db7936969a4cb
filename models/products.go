package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a sellable building material.
// The category is optional; PcsPerCarton and SqftPerPcs default to zero and
// only carry meaning for tile products.
type Product struct {
	ID                    uint            `gorm:"primaryKey"`
	Code                  string          `gorm:"uniqueIndex;not null"`
	Name                  string          `gorm:"not null"`
	CategoryID            *uint
	Category              *Category       `gorm:"foreignKey:CategoryID"`
	UnitTypeID            uint            `gorm:"not null"`
	UnitType              UnitType        `gorm:"foreignKey:UnitTypeID"`
	Price                 decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DeliveryChargePerUnit decimal.Decimal `gorm:"type:decimal(10,5);not null;default:0"`
	PcsPerCarton          int             `gorm:"not null;default:0"`
	SqftPerPcs            decimal.Decimal `gorm:"type:decimal(20,10);not null;default:0"`
}

func (p *Product) TableName() string {
	return "products"
}
