package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"Tasker/internal/apperr"
	"Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/middleware"
	"Tasker/internal/service"
	"Tasker/internal/telemetry"
	"Tasker/internal/validation"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles the task CRUD and filter endpoints.
type TaskHandler struct {
	svc    *service.TaskService
	events telemetry.Sink
}

func NewTaskHandler(svc *service.TaskService, events telemetry.Sink) *TaskHandler {
	if events == nil {
		events = telemetry.NopSink{}
	}
	return &TaskHandler{svc: svc, events: events}
}

// List godoc
// @Summary      List all tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.TaskResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorBody
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			middleware.Abort(c, apperr.KindNotFound, "Task not found")
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string][]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperr.KindInvalidArgument, "Request body must be valid JSON")
		return
	}
	if res := validation.CreateTaskRules(time.Now().UTC()).Evaluate(req); !res.IsValid() {
		middleware.AbortValidation(c, res.ByField())
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description, req.Priority, req.DueDate.Ptr())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	h.events.Emit(c.Request.Context(), telemetry.EventTaskCreated, telemetry.Props{
		"task_id":  t.ID,
		"priority": t.Priority.String(),
		"user":     middleware.Principal(c),
	})
	c.Header("Location", c.Request.URL.Path+"/"+strconv.FormatInt(t.ID, 10))
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Full replacement"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string][]string
// @Failure      404   {object}  dto.ErrorBody
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperr.KindInvalidArgument, "Request body must be valid JSON")
		return
	}
	if res := validation.UpdateTaskRules(time.Now().UTC()).Evaluate(req); !res.IsValid() {
		middleware.AbortValidation(c, res.ByField())
		return
	}

	t, err := h.svc.Update(c.Request.Context(), id, req.Title, req.Description, req.Priority, req.DueDate.Ptr(), req.IsCompleted)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			middleware.Abort(c, apperr.KindNotFound, "Task not found")
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task (Admin only)
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorBody
// @Failure      404  {object}  dto.ErrorBody
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if !removed {
		middleware.Abort(c, apperr.KindNotFound, "Task not found")
		return
	}
	h.events.Emit(c.Request.Context(), telemetry.EventTaskDeleted, telemetry.Props{
		"task_id": id,
		"user":    middleware.Principal(c),
	})
	c.Status(http.StatusNoContent)
}

// FilterByStatus godoc
// @Summary      List tasks filtered by completion
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query     bool  true  "Completion flag"
// @Success      200  {array}   dto.TaskResponse
// @Failure      400  {object}  dto.ErrorBody
// @Router       /tasks/filter/status [get]
func (h *TaskHandler) FilterByStatus(c *gin.Context) {
	completed, err := strconv.ParseBool(c.Query("completed"))
	if err != nil {
		middleware.Abort(c, apperr.KindInvalidArgument, "completed must be true or false")
		return
	}
	list, err := h.svc.ListByCompletion(c.Request.Context(), completed)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// FilterByPriority godoc
// @Summary      List tasks filtered by priority
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        priority  path      string  true  "Priority name or number (1-4)"
// @Success      200  {array}   dto.TaskResponse
// @Failure      400  {object}  dto.ErrorBody
// @Router       /tasks/filter/priority/{priority} [get]
func (h *TaskHandler) FilterByPriority(c *gin.Context) {
	p, err := domain.ParsePriority(c.Param("priority"))
	if err != nil {
		middleware.Abort(c, apperr.KindInvalidArgument, "priority must be Low, Medium, High, Critical or 1-4")
		return
	}
	list, err := h.svc.ListByPriority(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.Abort(c, apperr.KindInvalidArgument, "invalid id")
		return 0, false
	}
	return id, true
}

func taskToResponse(t domain.Task) dto.TaskResponse {
	var desc *string
	if t.Description != "" {
		desc = &t.Description
	}
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: desc,
		IsCompleted: t.IsCompleted,
		Priority:    int(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
	}
}

func tasksToResponses(list []domain.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
