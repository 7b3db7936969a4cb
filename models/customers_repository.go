package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrCustomerNotFound is returned when a customer is not found.
var ErrCustomerNotFound = errors.New("customer not found")

type CustomersRepository struct {
	db *gorm.DB
}

func NewCustomersRepository(db *gorm.DB) *CustomersRepository {
	return &CustomersRepository{
		db: db,
	}
}

func (r *CustomersRepository) GetByID(id uint) (*Customer, error) {
	var customer Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}
