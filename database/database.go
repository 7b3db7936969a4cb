// Package database opens the Postgres connection and keeps the schema
// migrated.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/buildermart/sales-api/models"
)

// Open connects to Postgres through database/sql and wraps the connection
// with GORM.
func Open(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("init gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.UnitType{},
		&models.Product{},
		&models.Customer{},
		&models.SalesOrder{},
		&models.SalesOrderItem{},
		&models.CustomerLedgerEntry{},
	)
}
