package database

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buildermart/sales-api/models"
)

// Seed loads the building-materials fixture set: unit types, categories and a
// starter catalog covering tiles, cement and rod. Existing rows are reused,
// so seeding is safe to run repeatedly.
func Seed(db *gorm.DB) error {
	unitTypes := []models.UnitType{
		{Code: "sqft", Name: "Square Feet"},
		{Code: "pcs", Name: "Pieces"},
		{Code: "bag", Name: "Bag"},
		{Code: "ton", Name: "Ton"},
	}
	unitByCode := map[string]*models.UnitType{}
	for i := range unitTypes {
		if err := db.Where(models.UnitType{Code: unitTypes[i].Code}).
			FirstOrCreate(&unitTypes[i]).Error; err != nil {
			return err
		}
		unitByCode[unitTypes[i].Code] = &unitTypes[i]
	}

	categories := []models.Category{
		{Code: "tiles", Name: "Tiles"},
		{Code: "cement", Name: "Cement"},
		{Code: "rod", Name: "Rod"},
		{Code: "sand", Name: "Sand"},
	}
	categoryByCode := map[string]*models.Category{}
	for i := range categories {
		if err := db.Where(models.Category{Code: categories[i].Code}).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
		categoryByCode[categories[i].Code] = &categories[i]
	}

	products := []models.Product{
		{
			Code:         "TILE001",
			Name:         "Ceramic Floor Tile 2x2",
			CategoryID:   &categoryByCode["tiles"].ID,
			UnitTypeID:   unitByCode["sqft"].ID,
			Price:        decimal.NewFromFloat(55.00),
			PcsPerCarton: 10,
			SqftPerPcs:   decimal.NewFromFloat(4.00),
		},
		{
			Code:         "TILE002",
			Name:         "Vitrified Tile 2x2",
			CategoryID:   &categoryByCode["tiles"].ID,
			UnitTypeID:   unitByCode["sqft"].ID,
			Price:        decimal.NewFromFloat(95.00),
			PcsPerCarton: 8,
			SqftPerPcs:   decimal.NewFromFloat(4.00),
		},
		{
			Code:         "TILE003",
			Name:         "Wall Tile 1x1",
			CategoryID:   &categoryByCode["tiles"].ID,
			UnitTypeID:   unitByCode["sqft"].ID,
			Price:        decimal.NewFromFloat(40.00),
			PcsPerCarton: 20,
			SqftPerPcs:   decimal.NewFromFloat(1.00),
		},
		{
			Code:       "CEM001",
			Name:       "Portland Cement",
			CategoryID: &categoryByCode["cement"].ID,
			UnitTypeID: unitByCode["bag"].ID,
			Price:      decimal.NewFromFloat(550.00),
		},
		{
			Code:       "ROD001",
			Name:       "60 Grade Deformed Bar",
			CategoryID: &categoryByCode["rod"].ID,
			UnitTypeID: unitByCode["ton"].ID,
			Price:      decimal.NewFromFloat(95000.00),
		},
	}
	for i := range products {
		if err := db.Where(models.Product{Code: products[i].Code}).
			FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
