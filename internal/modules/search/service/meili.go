package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
)

const ProductsIndex = "products"

// MeiliIndex stores documents in a Meilisearch index.
type MeiliIndex struct {
	index meilisearch.IndexManager
}

// NewMeiliIndex opens uid on client and makes categoryId filterable.
func NewMeiliIndex(ctx context.Context, client meilisearch.ServiceManager, uid string) (*MeiliIndex, error) {
	index := client.Index(uid)

	filterable := []any{"categoryId"}
	if _, err := index.UpdateFilterableAttributesWithContext(ctx, &filterable); err != nil {
		return nil, fmt.Errorf("configure %s index: %w", uid, err)
	}
	sortable := []string{"price", "name"}
	if _, err := index.UpdateSortableAttributesWithContext(ctx, &sortable); err != nil {
		return nil, fmt.Errorf("configure %s index: %w", uid, err)
	}

	return &MeiliIndex{index: index}, nil
}

func (m *MeiliIndex) Upsert(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.index.AddDocumentsWithContext(ctx, docs, strPtr("id")); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}
	return nil
}

func (m *MeiliIndex) Delete(ctx context.Context, id uint) error {
	if _, err := m.index.DeleteDocumentWithContext(ctx, strconv.FormatUint(uint64(id), 10)); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

// DeleteByCategory removes every document of a deleted category in one
// filtered task. The database cascade already removed the rows.
func (m *MeiliIndex) DeleteByCategory(ctx context.Context, categoryID uint) error {
	if _, err := m.index.DeleteDocumentsByFilterWithContext(ctx, categoryFilter(categoryID)); err != nil {
		return fmt.Errorf("delete documents of category %d: %w", categoryID, err)
	}
	return nil
}

func (m *MeiliIndex) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	resp, err := m.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("meilisearch query: %w", err)
	}

	docs := make([]Document, 0, len(resp.Hits))
	if err := resp.Hits.DecodeInto(&docs); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	return docs, nil
}

func categoryFilter(categoryID uint) string {
	return fmt.Sprintf("categoryId = %d", categoryID)
}

func strPtr(s string) *string {
	return &s
}
