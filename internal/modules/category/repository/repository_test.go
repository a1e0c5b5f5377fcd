package repository

import (
	"context"
	"errors"
	"testing"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/internal/testutil"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryColumns = []string{"id", "name", "description"}

func TestCategoryRepository_List(t *testing.T) {
	t.Run("plain page", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		rows := sqlmock.NewRows(categoryColumns).
			AddRow(1, "Electronics", "Devices and gadgets").
			AddRow(2, "Books", "Printed and digital books")
		mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY "categories"\."id" LIMIT`).WillReturnRows(rows)

		got, err := repo.List(context.Background(), pagination.Query{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Electronics", got[0].Name)
		assert.Equal(t, "Books", got[1].Name)
	})

	t.Run("filter sort and offset", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectQuery(`WHERE \("categories"\."name" LIKE .+ OR "categories"\."description" LIKE .+\) ORDER BY "categories"\."name" DESC,"categories"\."id" DESC LIMIT .+ OFFSET`).
			WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(2, "Books", "Printed and digital books"))

		got, err := repo.List(context.Background(), pagination.Query{
			Page: 2, PageSize: 5, SortBy: "Name", SortOrder: "desc", Filter: "Book",
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("unknown sort key orders by id", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY "categories"\."id" LIMIT`).WillReturnRows(sqlmock.NewRows(categoryColumns))

		got, err := repo.List(context.Background(), pagination.Query{Page: 1, PageSize: 10, SortBy: "password"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectQuery(`FROM "categories"`).WillReturnError(errors.New("connection reset"))

		_, err := repo.List(context.Background(), pagination.Query{Page: 1, PageSize: 10})
		assert.Error(t, err)
	})
}

func TestCategoryRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow(1, "Electronics", "Devices and gadgets"))

		got, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, &entity.Category{ID: 1, Name: "Electronics", Description: "Devices and gadgets"}, got)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(categoryColumns))

		got, err := repo.FindByID(context.Background(), 99)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCategoryRepository_Exists(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories" WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCategoryRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(`INSERT INTO "categories" \("name","description"\) VALUES \(\$1,\$2\) RETURNING "id"`).
		WithArgs("Clothing", "Apparel and accessories").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	category := &entity.Category{Name: "Clothing", Description: "Apparel and accessories"}
	require.NoError(t, repo.Create(context.Background(), category))
	assert.Equal(t, uint(3), category.ID)
}

func TestCategoryRepository_Update(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectExec(`UPDATE "categories" SET "description"=\$1,"name"=\$2 WHERE id = \$3`).
			WithArgs("Paper things", "Books", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &entity.Category{ID: 2, Name: "Books", Description: "Paper things"})
		assert.NoError(t, err)
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewCategoryRepository(db)

		mock.ExpectExec(`UPDATE "categories"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &entity.Category{ID: 8, Name: "Books", Description: "Paper things"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCategoryRepository_Delete(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 4))
}

func TestCategoryRepository_Count(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
