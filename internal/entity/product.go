package entity

import "github.com/shopspring/decimal"

const (
	ProductNameMinLen        = 5
	ProductNameMaxLen        = 100
	ProductDescriptionMinLen = 10
	ProductDescriptionMaxLen = 500

	// ProductPriceScale and ProductPriceDigits match the decimal(18,2) column.
	ProductPriceScale  = 2
	ProductPriceDigits = 16
)

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"size:500;not null"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}
