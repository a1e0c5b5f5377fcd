// Package pagination holds the paging, sorting and filtering rules shared by
// the catalog repositories.
package pagination

import (
	"strings"

	"anoa.com/productcatalog/pkg/dto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type Query struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Filter    string
}

// FromParams copies the bound query string, leaving zero values in place.
func FromParams(p dto.ListParams) Query {
	return Query{
		Page:      p.PageNumber,
		PageSize:  p.PageSize,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Filter:    p.Filter,
	}
}

// Normalize fills defaults and caps PageSize at maxPageSize when it is
// positive.
func (q Query) Normalize(maxPageSize int) Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func (q Query) Descending() bool {
	return strings.EqualFold(q.SortOrder, "desc")
}

// Columns whitelists sortable keys. Keys are lower case API names, values are
// column names.
type Columns map[string]string

func (c Columns) Lookup(sortBy string) (string, bool) {
	col, ok := c[strings.ToLower(strings.TrimSpace(sortBy))]
	return col, ok
}

// Sort orders by the whitelisted column, then by id in the same direction so
// rows with equal keys keep one order across pages. Unknown keys order by id
// ascending.
func Sort(cols Columns, q Query) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(OrderBy(cols, q))
	}
}

// OrderBy builds the ORDER BY clause used by Sort.
func OrderBy(cols Columns, q Query) clause.OrderBy {
	col, ok := cols.Lookup(q.SortBy)
	if !ok {
		return clause.OrderBy{Columns: []clause.OrderByColumn{orderColumn(idColumn, false)}}
	}

	desc := q.Descending()
	columns := []clause.OrderByColumn{orderColumn(col, desc)}
	if col != idColumn {
		columns = append(columns, orderColumn(idColumn, desc))
	}
	return clause.OrderBy{Columns: columns}
}

const idColumn = "id"

func orderColumn(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: clause.CurrentTable, Name: name},
		Desc:   desc,
	}
}

func Paginate(q Query) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.PageSize)
	}
}

// Contains matches filter as a case sensitive substring of any of the given
// columns.
func Contains(filter string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + EscapeLike(filter) + "%"
		exprs := make([]clause.Expression, 0, len(columns))
		for _, col := range columns {
			exprs = append(exprs, clause.Like{
				Column: clause.Column{Table: clause.CurrentTable, Name: col},
				Value:  pattern,
			})
		}
		return db.Where(clause.Or(exprs...))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards using Postgres' default escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
