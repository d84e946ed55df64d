package dto

import (
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDTO represents a task in API responses. Timestamps are RFC 3339 UTC
// strings and tags is never null.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *string             `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// TaskListResponse wraps the full, unpaginated task list
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// SuggestedTaskDTO is a task proposal that has not been saved
type SuggestedTaskDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *string             `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
}

// StatsDTO is the body of GET /api/stats
type StatsDTO struct {
	TotalTasks      int64   `json:"total_tasks"`
	CompletedTasks  int64   `json:"completed_tasks"`
	PendingTasks    int64   `json:"pending_tasks"`
	InProgressTasks int64   `json:"in_progress_tasks"`
	OverdueTasks    int64   `json:"overdue_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		Category:    task.Category,
		Tags:        []string(task.Tags),
		CreatedAt:   utils.FormatTimestamp(task.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(task.UpdatedAt),
	}

	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if task.DueDate != nil {
		due := utils.FormatTimestamp(*task.DueDate)
		dto.DueDate = &due
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{Tasks: items}
}

// ToSuggestedTaskDTOs converts suggestions for the response body
func ToSuggestedTaskDTOs(tasks []services.SuggestedTask) []SuggestedTaskDTO {
	items := make([]SuggestedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = SuggestedTaskDTO{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			Category:    task.Category,
			Tags:        task.Tags,
		}
		if items[i].Tags == nil {
			items[i].Tags = []string{}
		}
		if task.DueDate != nil {
			due := utils.FormatTimestamp(*task.DueDate)
			items[i].DueDate = &due
		}
	}
	return items
}

// ToStatsDTO converts service stats to the response body
func ToStatsDTO(stats services.Stats) StatsDTO {
	return StatsDTO{
		TotalTasks:      stats.Total,
		CompletedTasks:  stats.Completed,
		PendingTasks:    stats.Pending,
		InProgressTasks: stats.InProgress,
		OverdueTasks:    stats.Overdue,
		CompletionRate:  stats.CompletionRate,
	}
}
