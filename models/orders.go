package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SalesTypeRegular = "regular"
	SalesTypeInstant = "instant"
)

const (
	OrderStatusOrder     = "order"
	OrderStatusDelivered = "delivered"
	OrderStatusCancel    = "cancel"
)

// SalesOrder is a customer order. Regular sales reference a customer record;
// instant sales may carry only a free-text customer name.
type SalesOrder struct {
	ID                 uint            `gorm:"primaryKey"`
	OrderNumber        string          `gorm:"uniqueIndex;not null"`
	SalesType          string          `gorm:"not null;default:regular"`
	CustomerID         *uint
	Customer           *Customer       `gorm:"foreignKey:CustomerID"`
	CustomerName       string
	Status             string          `gorm:"not null;default:order"`
	OrderDate          time.Time       `gorm:"not null"`
	DeliveryDate       *time.Time
	DeliveryCharges    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TransportationCost decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CustomerDeposit    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Notes              string           `gorm:"type:text"`
	Items              []SalesOrderItem `gorm:"foreignKey:SalesOrderID"`
	CreatedAt          time.Time
}

func (o *SalesOrder) TableName() string {
	return "sales_orders"
}

// Subtotal sums the line totals of all items.
func (o *SalesOrder) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	return subtotal
}

// EstimatedDeliveryCharges derives delivery charges from each product's
// per-unit rate. Requires item products to be loaded.
func (o *SalesOrder) EstimatedDeliveryCharges() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity.Mul(item.Product.DeliveryChargePerUnit))
	}
	return total.Round(2)
}

// EffectiveDeliveryCharges returns the stored charge, falling back to the
// per-unit estimate when nothing was set on the order.
func (o *SalesOrder) EffectiveDeliveryCharges() decimal.Decimal {
	if o.DeliveryCharges.IsPositive() {
		return o.DeliveryCharges
	}
	return o.EstimatedDeliveryCharges()
}

// TotalAmount is subtotal plus delivery and transportation, minus discount.
func (o *SalesOrder) TotalAmount() decimal.Decimal {
	return o.Subtotal().
		Add(o.EffectiveDeliveryCharges()).
		Add(o.TransportationCost).
		Sub(o.DiscountAmount)
}

// SalesOrderItem is a single product line on a sales order.
type SalesOrderItem struct {
	ID           uint            `gorm:"primaryKey"`
	SalesOrderID uint            `gorm:"index;not null"`
	ProductID    uint            `gorm:"not null"`
	Product      Product         `gorm:"foreignKey:ProductID"`
	Quantity     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

func (i *SalesOrderItem) TableName() string {
	return "sales_order_items"
}
