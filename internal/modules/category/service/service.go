package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/events"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/modules/category/repository"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
	"github.com/sirupsen/logrus"
)

type CategoryService interface {
	GetCategories(ctx context.Context, q pagination.Query) ([]*entity.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*entity.Category, error)
	AddCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// Publisher receives notifications after successful writes.
type Publisher interface {
	Publish(ctx context.Context, n mediator.Notification) error
}

type categoryService struct {
	repo        repository.CategoryRepository
	publisher   Publisher
	maxPageSize int
	log         logrus.FieldLogger
}

func NewCategoryService(repo repository.CategoryRepository, publisher Publisher, maxPageSize int, log logrus.FieldLogger) CategoryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &categoryService{
		repo:        repo,
		publisher:   publisher,
		maxPageSize: maxPageSize,
		log:         log,
	}
}

func (s *categoryService) GetCategories(ctx context.Context, q pagination.Query) ([]*entity.Category, error) {
	return s.repo.List(ctx, q.Normalize(s.maxPageSize))
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint) (*entity.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *categoryService) AddCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	category.ID = 0
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.WithField("category_id", category.ID).Info("category created")
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.log.WithField("category_id", category.ID).Info("category updated")
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithField("category_id", id).Info("category deleted")
	s.publish(ctx, events.CategoryDeleted{ID: id})
	return nil
}

func (s *categoryService) publish(ctx context.Context, n mediator.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.log.WithError(err).WithField("kind", n.Kind()).Warn("notification subscriber failed")
	}
}

func validateCategory(category *entity.Category) error {
	if category == nil {
		return fmt.Errorf("category is required: %w", apperror.ErrBadRequest)
	}
	if strings.TrimSpace(category.Name) == "" || utf8.RuneCountInString(category.Name) > entity.CategoryNameMaxLen {
		return apperror.Invalid(fmt.Sprintf("category name must not be empty and must not exceed %d characters", entity.CategoryNameMaxLen))
	}
	if strings.TrimSpace(category.Description) == "" || utf8.RuneCountInString(category.Description) > entity.CategoryDescriptionMaxLen {
		return apperror.Invalid(fmt.Sprintf("category description must not be empty and must not exceed %d characters", entity.CategoryDescriptionMaxLen))
	}
	return nil
}
