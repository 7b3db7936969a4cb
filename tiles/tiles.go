// Package tiles classifies tile products and breaks ordered quantities down
// into cartons and loose pieces for invoice display.
package tiles

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buildermart/sales-api/models"
)

// CategoryName is the category that marks a product as a tile. Matching is
// case-insensitive.
const CategoryName = "Tiles"

// IsTileProduct reports whether the product belongs to the tiles category.
// Products without a category are never tiles.
func IsTileProduct(p *models.Product) bool {
	return p != nil && p.Category != nil && strings.EqualFold(p.Category.Name, CategoryName)
}

// RoundingPolicy controls what happens when an area-based quantity does not
// resolve to a whole number of pieces.
type RoundingPolicy int

const (
	// RoundDown truncates fractional pieces.
	RoundDown RoundingPolicy = iota
	// RoundNearest rounds fractional pieces to the closest whole piece.
	RoundNearest
	// RoundStrict rejects quantities that leave fractional pieces.
	RoundStrict
)

var (
	// ErrNotCalculable is returned when the product lacks positive packaging
	// attributes (sqft per piece and pieces per carton).
	ErrNotCalculable = errors.New("tiles: packaging attributes missing or zero")
	// ErrFractionalPieces is returned under RoundStrict when the quantity
	// does not resolve to a whole number of pieces.
	ErrFractionalPieces = errors.New("tiles: quantity does not resolve to whole pieces")
)

// Breakdown is the packaging summary for one order line.
type Breakdown struct {
	TotalSqft       decimal.Decimal
	TotalPieces     int64
	Cartons         int64
	RemainingPieces int64
}

// Calculator computes packaging breakdowns. The zero value truncates
// fractional pieces, matching how invoices have always been printed.
type Calculator struct {
	Policy RoundingPolicy
}

// Calculable reports whether the product carries the packaging attributes
// the breakdown needs. Products failing this render without packaging
// detail; it is not an error.
func (c Calculator) Calculable(p *models.Product) bool {
	return p != nil && p.PcsPerCarton > 0 && p.SqftPerPcs.IsPositive()
}

// Calculate converts an ordered quantity into total area, total pieces,
// whole cartons and loose remaining pieces. areaBased marks quantities
// expressed in sqft; otherwise the quantity is a piece count.
func (c Calculator) Calculate(sqftPerPcs decimal.Decimal, pcsPerCarton int, quantity decimal.Decimal, areaBased bool) (Breakdown, error) {
	if pcsPerCarton <= 0 || !sqftPerPcs.IsPositive() {
		return Breakdown{}, ErrNotCalculable
	}

	var totalSqft, pieces decimal.Decimal
	if areaBased {
		totalSqft = quantity
		pieces = quantity.Div(sqftPerPcs)
	} else {
		pieces = quantity
		totalSqft = quantity.Mul(sqftPerPcs)
	}

	whole, err := c.wholePieces(pieces)
	if err != nil {
		return Breakdown{}, err
	}

	perCarton := int64(pcsPerCarton)
	return Breakdown{
		TotalSqft:       totalSqft,
		TotalPieces:     whole,
		Cartons:         whole / perCarton,
		RemainingPieces: whole % perCarton,
	}, nil
}

// ForProduct runs the breakdown for an order line. It returns nil without an
// error when the product is not a tile or its packaging attributes are not
// set, so the line renders plain.
func (c Calculator) ForProduct(p *models.Product, quantity decimal.Decimal) (*Breakdown, error) {
	if !IsTileProduct(p) || !c.Calculable(p) {
		return nil, nil
	}
	b, err := c.Calculate(p.SqftPerPcs, p.PcsPerCarton, quantity, p.UnitType.IsAreaBased())
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (c Calculator) wholePieces(pieces decimal.Decimal) (int64, error) {
	switch c.Policy {
	case RoundNearest:
		return pieces.Round(0).IntPart(), nil
	case RoundStrict:
		if !pieces.Equal(pieces.Truncate(0)) {
			return 0, ErrFractionalPieces
		}
		return pieces.IntPart(), nil
	default:
		return pieces.Floor().IntPart(), nil
	}
}
