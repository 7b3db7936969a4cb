package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when a sales order is not found.
var ErrOrderNotFound = errors.New("sales order not found")

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		db: db,
	}
}

// CreateOrder persists the order and, when it belongs to a customer record,
// writes the sale to the customer ledger and adjusts the running balance.
// The ledger description is the full invoice text so entries read standalone.
func (r *OrdersRepository) CreateOrder(order *SalesOrder, ledgerDescription string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if order.CustomerID == nil {
			return nil
		}

		var customer Customer
		if err := tx.First(&customer, *order.CustomerID).Error; err != nil {
			return err
		}

		amount := order.TotalAmount()
		entry := CustomerLedgerEntry{
			CustomerID:      customer.ID,
			TransactionType: "sale",
			Reference:       order.OrderNumber,
			Amount:          amount,
			Description:     ledgerDescription,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		newBalance := customer.CurrentBalance.Add(amount)
		return tx.Model(&customer).Update("current_balance", newBalance).Error
	})
}

func (r *OrdersRepository) GetByNumber(number string) (*SalesOrder, error) {
	var order SalesOrder
	if err := r.db.
		Preload("Customer").
		Preload("Items.Product.Category").
		Preload("Items.Product.UnitType").
		Where("order_number = ?", number).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
