package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classes")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_log WHERE action = 'error'")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), "classes")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = repo.Count(context.Background(), "audit_log:errors")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = repo.Count(context.Background(), "users")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusLastUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatusRepository(db)

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(COALESCE(updated_at, created_at)) FROM sections")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(ts))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(COALESCE(updated_at, created_at)) FROM classes")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	got, err := repo.LastUpdate(context.Background(), "sections")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, ts.Equal(*got))

	got, err = repo.LastUpdate(context.Background(), "classes")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusPing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM sections LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	latency, err := NewStatusRepository(db).Ping(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, latency, time.Duration(0))
	assert.NoError(t, mock.ExpectationsWereMet())
}
