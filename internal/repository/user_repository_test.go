package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/testutil"
	"gorm.io/gorm"
)

var errDiskFull = errors.New("disk full")

func TestGormUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "dup@example.com", PasswordHash: "x"}))

	err := repo.Create(ctx, &models.User{Name: "B", Email: "dup@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	created := testutil.CreateUser(t, db, "Ann", "ann@example.com")

	user, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormUserRepository_DeleteCascadesToTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	ann := testutil.CreateUser(t, db, "Ann", "ann@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	testutil.CreateTask(t, db, ann.ID, "one")
	testutil.CreateTask(t, db, ann.ID, "two")
	testutil.CreateTask(t, db, bob.ID, "bob's")

	require.NoError(t, repo.Delete(ctx, ann.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Task{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err := repo.FindByID(ctx, ann.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, ann.ID), gorm.ErrRecordNotFound)
}

func TestGormUserRepository_DeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE user_id = \$1`).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(uint64(4)).
		WillReturnError(errDiskFull)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 4)

	assert.ErrorIs(t, err, errDiskFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}
