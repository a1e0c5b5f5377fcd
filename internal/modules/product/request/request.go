// Package request declares the product requests carried by the mediator and
// binds them to the product service.
package request

import (
	"context"
	"errors"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/mediator"
	product "anoa.com/productcatalog/internal/modules/product/service"
	"anoa.com/productcatalog/pkg/pagination"
)

const (
	KindList       mediator.Kind = "products.list"
	KindGet        mediator.Kind = "products.get"
	KindCreate     mediator.Kind = "products.create"
	KindUpdate     mediator.Kind = "products.update"
	KindDelete     mediator.Kind = "products.delete"
	KindByCategory mediator.Kind = "products.by_category"
)

type ListProducts struct {
	Query pagination.Query
}

func (ListProducts) Kind() mediator.Kind { return KindList }

type ListProductsByCategory struct {
	CategoryID uint
	Query      pagination.Query
}

func (ListProductsByCategory) Kind() mediator.Kind { return KindByCategory }

type GetProduct struct {
	ID uint
}

func (GetProduct) Kind() mediator.Kind { return KindGet }

type CreateProduct struct {
	Product *entity.Product
}

func (CreateProduct) Kind() mediator.Kind { return KindCreate }

type UpdateProduct struct {
	Product *entity.Product
}

func (UpdateProduct) Kind() mediator.Kind { return KindUpdate }

type DeleteProduct struct {
	ID uint
}

func (DeleteProduct) Kind() mediator.Kind { return KindDelete }

func Register(m *mediator.Mediator, svc product.ProductService) error {
	return errors.Join(
		mediator.Register(m, func(ctx context.Context, r ListProducts) ([]*entity.Product, error) {
			return svc.GetProducts(ctx, r.Query)
		}),
		mediator.Register(m, func(ctx context.Context, r ListProductsByCategory) ([]*entity.Product, error) {
			return svc.GetProductsByCategory(ctx, r.CategoryID, r.Query)
		}),
		mediator.Register(m, func(ctx context.Context, r GetProduct) (*entity.Product, error) {
			return svc.GetProductByID(ctx, r.ID)
		}),
		mediator.Register(m, func(ctx context.Context, r CreateProduct) (*entity.Product, error) {
			return svc.AddProduct(ctx, r.Product)
		}),
		mediator.Register(m, func(ctx context.Context, r UpdateProduct) (*entity.Product, error) {
			return svc.UpdateProduct(ctx, r.Product)
		}),
		mediator.Register(m, func(ctx context.Context, r DeleteProduct) (mediator.Unit, error) {
			return mediator.Unit{}, svc.DeleteProduct(ctx, r.ID)
		}),
	)
}

func Expectations() []mediator.Expectation {
	return []mediator.Expectation{
		mediator.Expect[[]*entity.Product, ListProducts](),
		mediator.Expect[[]*entity.Product, ListProductsByCategory](),
		mediator.Expect[*entity.Product, GetProduct](),
		mediator.Expect[*entity.Product, CreateProduct](),
		mediator.Expect[*entity.Product, UpdateProduct](),
		mediator.Expect[mediator.Unit, DeleteProduct](),
	}
}
