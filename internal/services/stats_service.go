package services

import (
	"context"
	"math"
	"time"

	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

// Stats summarizes one user's tasks.
type Stats struct {
	Total          int64
	Completed      int64
	Pending        int64
	InProgress     int64
	Overdue        int64
	CompletionRate float64
}

// StatsService computes per-user task statistics
type StatsService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(taskRepo repository.TaskRepository) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Stats returns the counts for userID. Overdue tasks are those due before
// now that are not completed.
func (s *StatsService) Stats(ctx context.Context, userID uint64) (*Stats, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to count tasks", err)
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, userID, s.now())
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to count overdue tasks", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	completed := counts[models.TaskStatusCompleted]
	return &Stats{
		Total:          total,
		Completed:      completed,
		Pending:        counts[models.TaskStatusPending],
		InProgress:     counts[models.TaskStatusInProgress],
		Overdue:        overdue,
		CompletionRate: CompletionRate(completed, total),
	}, nil
}

// CompletionRate returns completed/total as a percentage rounded to two
// decimals, or 0 when there are no tasks.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*100) / 100
}
