package search

import (
	"context"
	"fmt"
	"html"
	"strings"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/events"
	"anoa.com/productcatalog/internal/mediator"
	"anoa.com/productcatalog/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

const DefaultLimit = 20

// Document is the indexed shape of a product.
type Document struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CategoryID   uint    `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
}

// Index is the storage behind product search.
type Index interface {
	Upsert(ctx context.Context, docs ...Document) error
	Delete(ctx context.Context, id uint) error
	DeleteByCategory(ctx context.Context, categoryID uint) error
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

type SearchService interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
	IndexProduct(ctx context.Context, p entity.Product) error
	RemoveProduct(ctx context.Context, id uint) error
	RemoveCategory(ctx context.Context, categoryID uint) error
	Enabled() bool
}

type searchService struct {
	index     Index
	sanitizer *bluemonday.Policy
	log       logrus.FieldLogger
}

// NewSearchService returns a service backed by index. A nil index disables
// search: writes become no-ops and Search reports apperror.ErrUnavailable.
func NewSearchService(index Index, log logrus.FieldLogger) SearchService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &searchService{
		index:     index,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

func (s *searchService) Enabled() bool { return s.index != nil }

func (s *searchService) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if s.index == nil {
		return nil, fmt.Errorf("product search is disabled: %w", apperror.ErrUnavailable)
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	docs, err := s.index.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (s *searchService) IndexProduct(ctx context.Context, p entity.Product) error {
	if s.index == nil {
		return nil
	}
	return s.index.Upsert(ctx, s.toDocument(p))
}

func (s *searchService) RemoveProduct(ctx context.Context, id uint) error {
	if s.index == nil {
		return nil
	}
	return s.index.Delete(ctx, id)
}

func (s *searchService) RemoveCategory(ctx context.Context, categoryID uint) error {
	if s.index == nil {
		return nil
	}
	return s.index.DeleteByCategory(ctx, categoryID)
}

func (s *searchService) toDocument(p entity.Product) Document {
	doc := Document{
		ID:          p.ID,
		Name:        s.clean(p.Name),
		Description: s.clean(p.Description),
		Price:       p.Price.InexactFloat64(),
		CategoryID:  p.CategoryID,
	}
	if p.Category != nil {
		doc.CategoryName = s.clean(p.Category.Name)
	}
	return doc
}

// clean strips markup and collapses whitespace so the index holds plain text.
func (s *searchService) clean(text string) string {
	text = strings.NewReplacer("</p>", " ", "<br>", " ", "</div>", " ").Replace(text)
	text = html.UnescapeString(s.sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(text), " ")
}

// Subscribe keeps the index in step with catalog writes.
func Subscribe(m *mediator.Mediator, svc SearchService) {
	mediator.Subscribe(m, func(ctx context.Context, n events.ProductChanged) error {
		return svc.IndexProduct(ctx, n.Product)
	})
	mediator.Subscribe(m, func(ctx context.Context, n events.ProductDeleted) error {
		return svc.RemoveProduct(ctx, n.ID)
	})
	mediator.Subscribe(m, func(ctx context.Context, n events.CategoryDeleted) error {
		return svc.RemoveCategory(ctx, n.ID)
	})
}
