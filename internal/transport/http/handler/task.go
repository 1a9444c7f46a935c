package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/app"
	"todoapi/internal/transport/http/middleware"
	"todoapi/internal/transport/http/response"
)

type TaskHandler struct {
	taskService *app.TaskService
}

type CreateTaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=500"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed"`
}

func NewTaskHandler(taskService *app.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskService.List(middleware.AuthenticatedUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list tasks failed")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Create(app.CreateTaskInput{
		UserID: middleware.AuthenticatedUserID(c),
		Title:  req.Title,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "create task failed")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.Get(middleware.AuthenticatedUserID(c), c.Param("task_id"))
	if err != nil {
		h.writeTaskError(c, err, "get task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Update(app.UpdateTaskInput{
		UserID:    middleware.AuthenticatedUserID(c),
		TaskID:    c.Param("task_id"),
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		h.writeTaskError(c, err, "update task failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(middleware.AuthenticatedUserID(c), c.Param("task_id")); err != nil {
		h.writeTaskError(c, err, "delete task failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) writeTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "task not found")
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}
