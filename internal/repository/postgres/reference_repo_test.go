package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/repository/postgres"
)

func TestReferenceRepo_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewReferenceRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reference_items").
		WithArgs("country", "TR", "Turkey", "", 1, "state", "34", "Istanbul", "TR", 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), []domain.ReferenceItem{
		{Kind: domain.RefCountry, Code: "TR", Name: "Turkey", SortOrder: 1},
		{Kind: domain.RefState, Code: "34", Name: "Istanbul", ParentCode: "TR", SortOrder: 2},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepo_UpsertRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewReferenceRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reference_items").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), []domain.ReferenceItem{
		{Kind: domain.RefCountry, Code: "TR", Name: "Turkey"},
	})
	assert.ErrorContains(t, err, "referenceRepo.Upsert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepo_UpsertEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewReferenceRepo(db)

	require.NoError(t, repo.Upsert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepo_ListByParent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewReferenceRepo(db)

	mock.ExpectQuery("FROM reference_items").
		WithArgs("state", "TR").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "code", "name", "parent_code", "sort_order"}).
			AddRow("state", "06", "Ankara", "TR", 1).
			AddRow("state", "34", "Istanbul", "TR", 2))

	items, err := repo.ListByParent(context.Background(), domain.RefState, "TR")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ankara", items[0].Name)
	assert.Equal(t, "TR", items[1].ParentCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
