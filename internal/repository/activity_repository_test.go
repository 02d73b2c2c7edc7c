package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdo-app/hebdo-api/internal/models"
)

func newActivityMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func activityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "weekly_minutes", "category", "created_at", "updated_at"}).
		AddRow("1", "Guitar", 90, "music", time.Now(), time.Now())
}

func TestActivityRepositoryList(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery("SELECT a.id, a.name, a.weekly_minutes, a.category, a.created_at, a.updated_at").
		WillReturnRows(activityRows())
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	activities, total, err := repo.List(context.Background(), models.ActivityFilter{})
	require.NoError(t, err)
	assert.Len(t, activities, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery("SELECT a.id, a.name, a.weekly_minutes, a.category, a.created_at, a.updated_at").
		WithArgs("music", "%gui%").
		WillReturnRows(activityRows())
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("music", "%gui%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	activities, total, err := repo.List(context.Background(), models.ActivityFilter{Category: "music", Search: "Gui"})
	require.NoError(t, err)
	assert.Len(t, activities, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectQuery("ORDER BY a.created_at ASC, a.id ASC").
		WillReturnRows(activityRows())

	activities, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, activities, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("INSERT INTO activities").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	activity := &models.Activity{Name: "Guitar", WeeklyMinutes: 90, Category: "music"}
	err := repo.Create(context.Background(), activity)
	require.NoError(t, err)
	assert.NotEmpty(t, activity.ID)
	assert.False(t, activity.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("UPDATE activities SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Activity{ID: "1", Name: "Guitar", WeeklyMinutes: 60, Category: "music"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newActivityMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("DELETE FROM activities").
		WithArgs("1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec("DELETE FROM activities").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
