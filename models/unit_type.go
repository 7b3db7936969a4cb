package models

import "strings"

// UnitType is the unit of measurement a product is sold in, e.g. "sqft"
// (Square Feet), "pcs" (Pieces) or "bag" (Bag).
type UnitType struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
	Name string `gorm:"not null"`
}

func (u *UnitType) TableName() string {
	return "unit_types"
}

// IsAreaBased reports whether quantities in this unit are expressed as an
// area rather than a piece count.
func (u *UnitType) IsAreaBased() bool {
	return u != nil && strings.EqualFold(u.Code, "sqft")
}
