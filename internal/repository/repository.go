package repository

import (
	"context"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every lookup is scoped to the owning user.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByIDForUser finds a task by ID owned by userID
	FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Task, error)

	// List retrieves a user's tasks matching the filter, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update writes every column of task except its identity and creation time
	Update(ctx context.Context, task *models.Task) error

	// DeleteForUser deletes a task owned by userID and reports whether a row was removed
	DeleteForUser(ctx context.Context, id, userID uint64) (bool, error)

	// CountByStatus returns the number of a user's tasks per status
	CountByStatus(ctx context.Context, userID uint64) (map[models.TaskStatus]int64, error)

	// CountOverdue counts unfinished tasks whose due date is before now
	CountOverdue(ctx context.Context, userID uint64, now time.Time) (int64, error)
}

// TaskFilter holds filtering options for listing tasks. Empty fields are ignored.
type TaskFilter struct {
	UserID   uint64
	Status   string
	Category string
	Priority string
	Search   string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Delete deletes a user together with all of their tasks
	Delete(ctx context.Context, id uint64) error
}
