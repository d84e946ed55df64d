package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/testutil"
)

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, total int64
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 2, 50},
		{4, 4, 100},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CompletionRate(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestStatsService_Stats(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	testutil.CreateTask(t, db, alice.ID, "overdue", func(task *models.Task) { task.DueDate = &past })
	testutil.CreateTask(t, db, alice.ID, "late but done", func(task *models.Task) {
		task.DueDate = &past
		task.Status = models.TaskStatusCompleted
	})
	testutil.CreateTask(t, db, alice.ID, "upcoming", func(task *models.Task) {
		task.DueDate = &future
		task.Status = models.TaskStatusInProgress
	})
	testutil.CreateTask(t, db, alice.ID, "undated")
	testutil.CreateTask(t, db, bob.ID, "bob overdue", func(task *models.Task) { task.DueDate = &past })

	service := NewStatsService(repository.NewTaskRepository(db))
	service.now = func() time.Time { return now }

	stats, err := service.Stats(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(1), stats.Overdue)
	assert.Equal(t, 25.0, stats.CompletionRate)
}

func TestStatsService_NoTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com")

	stats, err := NewStatsService(repository.NewTaskRepository(db)).Stats(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.CompletionRate)
}
