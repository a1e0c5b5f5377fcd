// Package request declares the product search request carried by the
// mediator.
package request

import (
	"context"

	"anoa.com/productcatalog/internal/mediator"
	search "anoa.com/productcatalog/internal/modules/search/service"
)

const KindSearch mediator.Kind = "products.search"

type SearchProducts struct {
	Query string
	Limit int
}

func (SearchProducts) Kind() mediator.Kind { return KindSearch }

func Register(m *mediator.Mediator, svc search.SearchService) error {
	return mediator.Register(m, func(ctx context.Context, r SearchProducts) ([]search.Document, error) {
		return svc.Search(ctx, r.Query, r.Limit)
	})
}

func Expectations() []mediator.Expectation {
	return []mediator.Expectation{
		mediator.Expect[[]search.Document, SearchProducts](),
	}
}
