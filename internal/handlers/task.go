package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

// NewTaskHandler creates a TaskHandler. aiService may be nil, which
// disables suggestions.
func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// ListTasks returns the current user's tasks, newest first.
// Optional query filters: status, category, priority, search.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.ErrNotAuthenticated)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), services.ListTasksInput{
		UserID:   userID,
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.ErrNotAuthenticated)
		return
	}

	payload, err := bindTaskPayload(c)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	input, err := payload.createInput(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask changes the fields present in the body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.ErrNotAuthenticated)
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrTaskNotFound)
		return
	}

	payload, err := bindTaskPayload(c)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	input, err := payload.updateInput(userID, taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask deletes one of the current user's tasks
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Respond(c, apierrors.ErrNotAuthenticated)
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrTaskNotFound)
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, taskID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SuggestTasks proposes tasks extracted from free-form text without saving them
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Respond(c, apierrors.ErrNotAuthenticated)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrInvalidBody)
		return
	}

	suggestions, err := h.aiService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToSuggestedTaskDTOs(suggestions)})
}

// parseTaskID reads the :id path parameter. Anything that is not a positive
// integer cannot name a task.
func parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
