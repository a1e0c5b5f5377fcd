// Package request declares the category requests carried by the mediator and
// binds them to the category service.
package request

import (
	"context"
	"errors"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/mediator"
	category "anoa.com/productcatalog/internal/modules/category/service"
	"anoa.com/productcatalog/pkg/pagination"
)

const (
	KindList   mediator.Kind = "categories.list"
	KindGet    mediator.Kind = "categories.get"
	KindCreate mediator.Kind = "categories.create"
	KindUpdate mediator.Kind = "categories.update"
	KindDelete mediator.Kind = "categories.delete"
)

type ListCategories struct {
	Query pagination.Query
}

func (ListCategories) Kind() mediator.Kind { return KindList }

type GetCategory struct {
	ID uint
}

func (GetCategory) Kind() mediator.Kind { return KindGet }

type CreateCategory struct {
	Category *entity.Category
}

func (CreateCategory) Kind() mediator.Kind { return KindCreate }

type UpdateCategory struct {
	Category *entity.Category
}

func (UpdateCategory) Kind() mediator.Kind { return KindUpdate }

type DeleteCategory struct {
	ID uint
}

func (DeleteCategory) Kind() mediator.Kind { return KindDelete }

// Register binds every category request to svc.
func Register(m *mediator.Mediator, svc category.CategoryService) error {
	return errors.Join(
		mediator.Register(m, func(ctx context.Context, r ListCategories) ([]*entity.Category, error) {
			return svc.GetCategories(ctx, r.Query)
		}),
		mediator.Register(m, func(ctx context.Context, r GetCategory) (*entity.Category, error) {
			return svc.GetCategoryByID(ctx, r.ID)
		}),
		mediator.Register(m, func(ctx context.Context, r CreateCategory) (*entity.Category, error) {
			return svc.AddCategory(ctx, r.Category)
		}),
		mediator.Register(m, func(ctx context.Context, r UpdateCategory) (*entity.Category, error) {
			return svc.UpdateCategory(ctx, r.Category)
		}),
		mediator.Register(m, func(ctx context.Context, r DeleteCategory) (mediator.Unit, error) {
			return mediator.Unit{}, svc.DeleteCategory(ctx, r.ID)
		}),
	)
}

// Expectations lists what the category handlers send.
func Expectations() []mediator.Expectation {
	return []mediator.Expectation{
		mediator.Expect[[]*entity.Category, ListCategories](),
		mediator.Expect[*entity.Category, GetCategory](),
		mediator.Expect[*entity.Category, CreateCategory](),
		mediator.Expect[*entity.Category, UpdateCategory](),
		mediator.Expect[mediator.Unit, DeleteCategory](),
	}
}
