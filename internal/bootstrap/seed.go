package bootstrap

import (
	"fmt"

	"anoa.com/productcatalog/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate creates the catalog tables, including the cascading foreign key
// from products to categories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Category{},
		&entity.Product{},
	)
}

// SeedCatalog inserts the demo catalog when the categories table is empty.
func SeedCatalog(db *gorm.DB, log logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&entity.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.WithField("categories", count).Info("catalog already seeded, skipping")
		return nil
	}

	categories := []entity.Category{
		{
			Name:        "Electronics",
			Description: "Devices and gadgets",
			Products: []entity.Product{
				{Name: "Laptop", Description: "A high-performance laptop", Price: decimal.RequireFromString("1200.00")},
				{Name: "Smartphone", Description: "A modern smartphone", Price: decimal.RequireFromString("800.00")},
			},
		},
		{
			Name:        "Books",
			Description: "Printed and digital books",
		},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			if err := tx.Create(&categories[i]).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", categories[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithField("categories", len(categories)).Info("catalog seeded")
	return nil
}
