package repository

import (
	"context"
	"time"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByIDForUser finds a task by ID owned by userID
func (r *GormTaskRepository) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID)).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering. There is no pagination: the full
// matching set is returned.
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	err := r.db.WithContext(ctx).
		Scopes(
			database.OwnedBy(filter.UserID),
			database.EqualIfSet("status", filter.Status),
			database.EqualIfSet("category", filter.Category),
			database.EqualIfSet("priority", filter.Priority),
			database.ContainsAny(filter.Search, "title", "description"),
			database.NewestFirst(),
		).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Where("user_id = ?", task.UserID).
		Select("*").
		Omit("ID", "UserID", "CreatedAt").
		Updates(task).Error
}

// DeleteForUser deletes a task owned by userID
func (r *GormTaskRepository) DeleteForUser(ctx context.Context, id, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type statusCount struct {
	Status models.TaskStatus
	Count  int64
}

// CountByStatus returns the number of a user's tasks per status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, userID uint64) (map[models.TaskStatus]int64, error) {
	var rows []statusCount

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] += row.Count
	}
	return counts, nil
}

// CountOverdue counts tasks due before now that are not completed.
// Tasks without a due date are never overdue.
func (r *GormTaskRepository) CountOverdue(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID)).
		Where("due_date IS NOT NULL").
		Where("due_date < ?", now.UTC()).
		Where("status <> ?", models.TaskStatusCompleted).
		Count(&count).Error

	return count, err
}
