// Package app builds the object graph shared by the HTTP layer.
package app

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"gorm.io/gorm"
)

// App holds configuration, the database handle and the services built on
// top of it. It is constructed once in main and passed explicitly.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Auth  *services.AuthService
	Tasks *services.TaskService
	Stats *services.StatsService
	AI    *services.AIService
}

// New wires repositories and services. redisClient may be nil.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *App {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)

	return &App{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Auth:   services.NewAuthService(userRepo, tokens),
		Tasks:  services.NewTaskService(taskRepo),
		Stats:  services.NewStatsService(taskRepo),
		AI:     services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel),
	}
}
