// Package events declares the notifications published by the catalog
// services after a successful write.
package events

import (
	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/mediator"
)

const (
	KindProductChanged  mediator.Kind = "product.changed"
	KindProductDeleted  mediator.Kind = "product.deleted"
	KindCategoryDeleted mediator.Kind = "category.deleted"
)

// ProductChanged follows a create or update.
type ProductChanged struct {
	Product entity.Product
}

func (ProductChanged) Kind() mediator.Kind { return KindProductChanged }

type ProductDeleted struct {
	ID uint
}

func (ProductDeleted) Kind() mediator.Kind { return KindProductDeleted }

// CategoryDeleted follows a category delete. Its products are already gone
// by cascade.
type CategoryDeleted struct {
	ID uint
}

func (CategoryDeleted) Kind() mediator.Kind { return KindCategoryDeleted }
