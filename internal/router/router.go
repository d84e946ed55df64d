package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/todo-api/internal/app"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/logger"
	"github.com/yukikurage/todo-api/internal/middleware"
)

// Setup builds the gin engine with every route of the API.
func Setup(a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger.Get()),
		middleware.Recovery(),
		middleware.CORS(a.Config.CORSAllowOrigin),
		middleware.Metrics(),
	)

	authHandler := handlers.NewAuthHandler(a.Auth)
	taskHandler := handlers.NewTaskHandler(a.Tasks, a.AI)
	statsHandler := handlers.NewStatsHandler(a.Stats)
	healthHandler := handlers.NewHealthHandler(a.DB)

	requireAuth := middleware.RequireAuth(a.Auth)
	authLimiter := middleware.NewRateLimiter(a.Redis, "auth", a.Config.AuthRateLimit, a.Config.AuthRateWindow)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/health/ready", healthHandler.Ready)
		api.POST("/init-db", healthHandler.InitDB)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Handler(), authHandler.Register)
			auth.POST("/login", authLimiter.Handler(), authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.DELETE("/me", requireAuth, authHandler.DeleteCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		api.GET("/stats", requireAuth, statsHandler.GetStats)
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	return r
}
