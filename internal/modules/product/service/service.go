package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/events"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/internal/modules/product/repository"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ProductService interface {
	GetProducts(ctx context.Context, q pagination.Query) ([]*entity.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID uint, q pagination.Query) ([]*entity.Product, error)
	GetProductByID(ctx context.Context, id uint) (*entity.Product, error)
	AddProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// CategoryFinder resolves the category a product points at.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, n mediator.Notification) error
}

type productService struct {
	repo        repository.ProductRepository
	categories  CategoryFinder
	publisher   Publisher
	maxPageSize int
	log         logrus.FieldLogger
}

func NewProductService(repo repository.ProductRepository, categories CategoryFinder, publisher Publisher, maxPageSize int, log logrus.FieldLogger) ProductService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &productService{
		repo:        repo,
		categories:  categories,
		publisher:   publisher,
		maxPageSize: maxPageSize,
		log:         log,
	}
}

func (s *productService) GetProducts(ctx context.Context, q pagination.Query) ([]*entity.Product, error) {
	return s.repo.List(ctx, q.Normalize(s.maxPageSize))
}

func (s *productService) GetProductsByCategory(ctx context.Context, categoryID uint, q pagination.Query) ([]*entity.Product, error) {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("category %d: %w", categoryID, apperror.ErrNotFound)
	}
	return s.repo.ListByCategory(ctx, categoryID, q.Normalize(s.maxPageSize))
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) AddProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	product.ID = 0
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "category_id": product.CategoryID}).Info("product created")
	s.publish(ctx, events.ProductChanged{Product: *product})
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.log.WithField("product_id", product.ID).Info("product updated")
	s.publish(ctx, events.ProductChanged{Product: *product})
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithField("product_id", id).Info("product deleted")
	s.publish(ctx, events.ProductDeleted{ID: id})
	return nil
}

// validate checks the fields first and the category last so a malformed
// product never costs a query. On success product.Category is set.
func (s *productService) validate(ctx context.Context, product *entity.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Invalid(fmt.Sprintf("category with id %d does not exist", product.CategoryID))
		}
		return err
	}
	product.Category = category
	return nil
}

func (s *productService) publish(ctx context.Context, n mediator.Notification) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.log.WithError(err).WithField("kind", n.Kind()).Warn("notification subscriber failed")
	}
}

func validateProduct(product *entity.Product) error {
	if product == nil {
		return fmt.Errorf("product is required: %w", apperror.ErrBadRequest)
	}

	nameLen := utf8.RuneCountInString(product.Name)
	if strings.TrimSpace(product.Name) == "" || nameLen < entity.ProductNameMinLen || nameLen > entity.ProductNameMaxLen {
		return apperror.Invalid(fmt.Sprintf("product name must be between %d and %d characters",
			entity.ProductNameMinLen, entity.ProductNameMaxLen))
	}

	descLen := utf8.RuneCountInString(product.Description)
	if strings.TrimSpace(product.Description) == "" || descLen < entity.ProductDescriptionMinLen || descLen > entity.ProductDescriptionMaxLen {
		return apperror.Invalid(fmt.Sprintf("product description must be between %d and %d characters",
			entity.ProductDescriptionMinLen, entity.ProductDescriptionMaxLen))
	}

	if !product.Price.IsPositive() {
		return apperror.Invalid("product price must be greater than 0")
	}
	if !product.Price.Equal(product.Price.Round(entity.ProductPriceScale)) {
		return apperror.Invalid(fmt.Sprintf("product price must have at most %d decimal places", entity.ProductPriceScale))
	}
	if !product.Price.LessThan(decimal.New(1, entity.ProductPriceDigits)) {
		return apperror.Invalid(fmt.Sprintf("product price must have at most %d digits before the decimal point", entity.ProductPriceDigits))
	}
	return nil
}
