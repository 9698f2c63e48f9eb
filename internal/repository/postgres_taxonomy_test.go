package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/sandalio7/Serena/internal/taxonomy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaxonomyMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresTaxonomyRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresTaxonomyRepository(db)
}

func TestEnsureSeededInsertsFullDefinition(t *testing.T) {
	db, mock, repo := setupTaxonomyMock(t)
	defer db.Close()

	mock.ExpectBegin()
	var id int64
	for _, cat := range taxonomy.Definition() {
		id++
		mock.ExpectQuery(`INSERT INTO categories`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
		for range cat.Subcategories {
			mock.ExpectExec(`INSERT INTO subcategories`).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectCommit()

	err := repo.EnsureSeeded(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSeededRollsBackOnFailure(t *testing.T) {
	db, mock, repo := setupTaxonomyMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO categories`).
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	err := repo.EnsureSeeded(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAll(t *testing.T) {
	db, mock, repo := setupTaxonomyMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT(.|\n)+FROM categories`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "description", "active", "display_order"}).
			AddRow(int64(1), taxonomy.PhysicalHealth, "", true, 1).
			AddRow(int64(5), taxonomy.Expenses, "", true, 5))
	mock.ExpectQuery(`SELECT(.|\n)+FROM subcategories`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "category_id", "name", "description", "active", "display_order"}).
			AddRow(int64(10), int64(1), taxonomy.SubSleep, "", true, 1).
			AddRow(int64(50), int64(5), taxonomy.SubOther, "", true, 3))

	categories, subcategories, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Len(t, subcategories, 2)
	assert.Equal(t, taxonomy.Expenses, categories[1].Name)
	assert.Equal(t, int64(5), subcategories[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
