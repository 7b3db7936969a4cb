package models

// Category represents a product category.
// It includes a unique code and a human-readable display name. Names are
// free text; tile classification case-folds them at read time.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
	Name string `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "categories"
}
