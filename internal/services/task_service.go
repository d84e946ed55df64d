package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired   = apierrors.NewValidationError("Task title is required")
	ErrInvalidDueDate  = apierrors.NewValidationError("Invalid due date format")
	ErrInvalidStatus   = apierrors.NewValidationError("Status must be one of Pending, In Progress, Completed")
	ErrInvalidPriority = apierrors.NewValidationError("Priority must be one of High, Medium, Low")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasksInput represents filters for listing tasks. Empty filters are ignored.
type ListTasksInput struct {
	UserID   uint64
	Status   string
	Category string
	Priority string
	Search   string
}

// CreateTaskInput represents input for creating a task. Empty optional
// fields take their defaults.
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
	Category    string
	Tags        []string
}

// UpdateTaskInput represents a partial update. A nil field is left as is;
// a DueDate pointing at "" clears the due date.
type UpdateTaskInput struct {
	UserID      uint64
	TaskID      uint64
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
	Category    *string
	Tags        *[]string
}

// List returns the user's tasks matching the filters, newest first
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Category: input.Category,
		Priority: input.Priority,
		Search:   input.Search,
	})
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to list tasks", err)
	}

	return tasks, nil
}

// Create validates input and stores a new task owned by input.UserID
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		if priority, err = parsePriority(input.Priority); err != nil {
			return nil, err
		}
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      status,
		Category:    category,
		Tags:        models.TagList(tags),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, apierrors.NewInternalError("Failed to create task", err)
	}

	return task, nil
}

// Update applies the present fields of input to a task owned by input.UserID.
// A task owned by someone else is reported as not found.
func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(ctx, input.TaskID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if task.Title, err = validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		if task.DueDate, err = parseDueDate(*input.DueDate); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		if task.Priority, err = parsePriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if task.Status, err = parseStatus(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.Category != nil {
		if task.Category, err = normalizeCategory(*input.Category); err != nil {
			return nil, err
		}
	}
	if input.Tags != nil {
		tags := *input.Tags
		if tags == nil {
			tags = []string{}
		}
		task.Tags = models.TagList(tags)
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, apierrors.NewInternalError("Failed to update task", err)
	}

	// Re-read so the response carries the stored updated_at.
	return s.findOwned(ctx, task.ID, input.UserID)
}

// Delete removes a task owned by userID
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint64) error {
	deleted, err := s.taskRepo.DeleteForUser(ctx, taskID, userID)
	if err != nil {
		return apierrors.NewInternalError("Failed to delete task", err)
	}
	if !deleted {
		return apierrors.ErrTaskNotFound
	}

	return nil
}

func (s *TaskService) findOwned(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrTaskNotFound
		}
		return nil, apierrors.NewInternalError("Failed to find task", err)
	}
	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", apierrors.NewValidationError(fmt.Sprintf("Task title must be at most %d characters", constants.MaxTitleLength))
	}
	return title, nil
}

// parseDueDate treats "" as no due date.
func parseDueDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := utils.ParseTimestamp(value)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &t, nil
}

func parsePriority(value string) (models.TaskPriority, error) {
	p := models.TaskPriority(value)
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func parseStatus(value string) (models.TaskStatus, error) {
	st := models.TaskStatus(value)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func normalizeCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return constants.DefaultCategory, nil
	}
	if utf8.RuneCountInString(category) > constants.MaxCategoryLength {
		return "", apierrors.NewValidationError(fmt.Sprintf("Category must be at most %d characters", constants.MaxCategoryLength))
	}
	return category, nil
}
