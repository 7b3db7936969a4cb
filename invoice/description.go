// Package invoice renders plain-text invoice descriptions for sales orders.
// The same text is stored on customer ledger entries so they can be read
// without loading the order.
package invoice

import (
	"fmt"
	"strings"

	"github.com/buildermart/sales-api/models"
	"github.com/buildermart/sales-api/tiles"
)

// DefaultCurrencySymbol is the Bangladeshi taka sign.
const DefaultCurrencySymbol = "৳"

// Builder renders invoice descriptions. The zero value uses the default
// currency symbol and the default (truncating) tile calculator.
type Builder struct {
	Calc           tiles.Calculator
	CurrencySymbol string
}

func (b Builder) currency() string {
	if b.CurrencySymbol != "" {
		return b.CurrencySymbol
	}
	return DefaultCurrencySymbol
}

// Description builds the full invoice text: header, one line per item with a
// packaging note for calculable tile lines, the cost breakdown and notes.
// Item products must be loaded.
func (b Builder) Description(order *models.SalesOrder) string {
	cur := b.currency()
	parts := []string{fmt.Sprintf("%s | %s", order.OrderNumber, order.OrderDate.Format("2006-01-02"))}

	for i := range order.Items {
		item := &order.Items[i]
		line := fmt.Sprintf("%s - %s %s @ %s%s = %s%s",
			item.Product.Name,
			item.Quantity.String(),
			item.Product.UnitType.Code,
			cur, item.UnitPrice.StringFixed(2),
			cur, item.TotalPrice.StringFixed(2),
		)

		if breakdown, err := b.Calc.ForProduct(&item.Product, item.Quantity); err == nil && breakdown != nil {
			line += fmt.Sprintf(" (%s sqft, %d carton", breakdown.TotalSqft.Truncate(0).String(), breakdown.Cartons)
			if breakdown.RemainingPieces > 0 {
				line += fmt.Sprintf(" %d pcs", breakdown.RemainingPieces)
			}
			line += ")"
		}

		parts = append(parts, line)
	}

	subtotal := order.Subtotal()
	delivery := order.EffectiveDeliveryCharges()
	transport := order.TransportationCost
	discount := order.DiscountAmount

	parts = append(parts, fmt.Sprintf("Subtotal: %s%s", cur, subtotal.StringFixed(2)))
	if delivery.IsPositive() {
		parts = append(parts, fmt.Sprintf("Delivery: %s%s", cur, delivery.StringFixed(2)))
	}
	if transport.IsPositive() {
		parts = append(parts, fmt.Sprintf("Transport: %s%s", cur, transport.StringFixed(2)))
	}
	if discount.IsPositive() {
		parts = append(parts, fmt.Sprintf("Discount: -%s%s", cur, discount.StringFixed(2)))
	}
	parts = append(parts, fmt.Sprintf("Total: %s%s", cur, order.TotalAmount().StringFixed(2)))

	if order.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", order.Notes))
	}

	return strings.Join(parts, "\n")
}
