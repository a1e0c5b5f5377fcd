package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortColumns = pagination.Columns{
	"id":          "id",
	"name":        "name",
	"price":       "price",
	"description": "description",
	"categoryid":  "category_id",
}

type ProductRepository interface {
	List(ctx context.Context, q pagination.Query) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID uint, q pagination.Query) ([]*entity.Product, error)
	FindByID(ctx context.Context, id uint) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) list(ctx context.Context, q pagination.Query, scopes ...func(*gorm.DB) *gorm.DB) ([]*entity.Product, error) {
	var products []*entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Scopes(scopes...).
		Scopes(
			pagination.Contains(q.Filter, "name", "description"),
			pagination.Sort(sortColumns, q),
			pagination.Paginate(q),
		).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, q pagination.Query) ([]*entity.Product, error) {
	return r.list(ctx, q)
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID uint, q pagination.Query) ([]*entity.Product, error) {
	return r.list(ctx, q, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update replaces every column of an existing row.
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"price":       product.Price,
			"description": product.Description,
			"category_id": product.CategoryID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", product.ID, apperror.ErrNotFound)
	}
	return nil
}

// Delete is a no-op for a missing id.
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error
	return count, err
}
