package dto

import (
	"anoa.com/productcatalog/internal/entity"
	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductRequest is the body of POST and PUT /api/products. The length limits
// mirror the entity.Product* constants.
type ProductRequest struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name" binding:"required,min=5,max=100"`
	Price       decimal.Decimal `json:"price" binding:"required,gt=0,scale=2,digits=16"`
	Description string          `json:"description" binding:"required,min=10,max=500"`
	CategoryID  uint            `json:"categoryId" binding:"required"`
}

type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	CategoryID   uint            `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
}

func (r ProductRequest) ToEntity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}
}

func FromEntity(p *entity.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		CategoryID:  p.CategoryID,
	}
	if p.Category != nil {
		res.CategoryName = p.Category.Name
	}
	return res
}

func FromEntities(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromEntity(p))
	}
	return out
}
