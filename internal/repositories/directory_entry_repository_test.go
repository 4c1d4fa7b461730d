package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryEntryCRUD(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDirectoryEntryRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	cols := []string{"id", "name", "created_at"}

	mock.ExpectQuery("INSERT INTO directory_entries").
		WithArgs("id-1", "Alice").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("id-1", "Alice", now))
	e, err := repo.Create(ctx, "id-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", e.Name)

	mock.ExpectQuery("UPDATE directory_entries").
		WithArgs("Alicia", "id-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("id-1", "Alicia", now))
	e, err = repo.Update(ctx, "id-1", "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", e.Name)

	mock.ExpectQuery("UPDATE directory_entries").
		WithArgs("x", "missing").
		WillReturnRows(sqlmock.NewRows(cols))
	e, err = repo.Update(ctx, "missing", "x")
	require.NoError(t, err)
	assert.Nil(t, e)

	mock.ExpectQuery("FROM directory_entries").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("id-1", "Alicia", now).AddRow("id-2", "Bob", now))
	list, err := repo.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mock.ExpectExec("DELETE FROM directory_entries").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec("DELETE FROM directory_entries").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
