package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
	"gorm.io/gorm"
)

var sortColumns = pagination.Columns{
	"id":          "id",
	"name":        "name",
	"description": "description",
}

type CategoryRepository interface {
	List(ctx context.Context, q pagination.Query) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uint) (*entity.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, q pagination.Query) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := r.db.WithContext(ctx).
		Scopes(
			pagination.Contains(q.Filter, "name", "description"),
			pagination.Sort(sortColumns, q),
			pagination.Paginate(q),
		).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Omit("Products").Create(category).Error
}

// Update replaces name and description of an existing row.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", category.ID, apperror.ErrNotFound)
	}
	return nil
}

// Delete removes the row and, through the foreign key, its products. Deleting
// a missing id is not an error.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Category{}).Count(&count).Error
	return count, err
}
