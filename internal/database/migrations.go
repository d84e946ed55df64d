package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/todo-api/internal/logger"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

type taskIndex struct {
	name    string
	columns []string
}

// Task indexes for the list and stats queries
var taskIndexes = []taskIndex{
	{"idx_tasks_user_id", []string{"user_id"}},
	{"idx_tasks_user_created_at", []string{"user_id", "created_at"}},
	{"idx_tasks_status", []string{"status"}},
	{"idx_tasks_due_date", []string{"due_date"}},
}

// AddIndexes adds performance-critical indexes to the tasks table. It is safe
// to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range taskIndexes {
		if migrator.HasIndex(&models.Task{}, idx.name) {
			logger.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("created index", "index", idx.name, "columns", idx.columns)
	}

	return nil
}
