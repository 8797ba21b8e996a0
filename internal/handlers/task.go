package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Arieh-code/task-managment-project/internal/auth"
	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/dto"
	"github.com/Arieh-code/task-managment-project/internal/repo"
	"github.com/Arieh-code/task-managment-project/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler exposes the task lifecycle over HTTP. Not-found and not-owned
// are both surfaced as 400 "Task not found", so cross-user probes are
// indistinguishable from missing ids.
type TaskHandler struct {
	svc *service.TaskService
	log *slog.Logger
}

func NewTaskHandler(svc *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{svc: svc, log: log}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        completed   query  bool    false  "Filter by completion state"
// @Param        importance  query  string  false  "Filter by importance (Low, Medium, Urgent)"
// @Param        sort        query  string  false  "Sort: end_date or importance"
// @Success      200  {array}   dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	p := auth.PrincipalFromContext(c)

	var f repo.TaskFilter
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be true or false"})
			return
		}
		f.Completed = &completed
	}
	if raw := c.Query("importance"); raw != "" {
		imp := dom.Importance(raw)
		if !imp.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "importance must be Low, Medium or Urgent"})
			return
		}
		f.Importance = &imp
	}
	switch sort := c.Query("sort"); sort {
	case "", "end_date", "importance":
		f.Sort = sort
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be end_date or importance"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), p.UserID, f)
	if err != nil {
		h.log.Error("list tasks", "user", p.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred while fetching task list"})
		return
	}
	c.JSON(http.StatusOK, dto.TasksToResponses(list, p.Username))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	p := auth.PrincipalFromContext(c)
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), p.UserID,
		req.Title, req.Description, req.ImportanceOrDefault(), req.Completed, req.EndDate.Ptr())
	if err != nil {
		if errors.Is(err, service.ErrInvalidTitle) || errors.Is(err, dom.ErrUnknownImportance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
			return
		}
		h.log.Error("create task", "user", p.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}
	c.JSON(http.StatusCreated, dto.TaskToResponse(t, p.Username))
}

// Update godoc
// @Summary      Partially update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	p := auth.PrincipalFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
		return
	}

	patch := service.UpdateTaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Importance != nil {
		imp := dom.Importance(*req.Importance)
		patch.Importance = &imp
	}
	if req.EndDate != nil {
		patch.EndDate = req.EndDate.Ptr()
	}

	t, err := h.svc.Update(c.Request.Context(), p.UserID, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task not found"})
		case errors.Is(err, service.ErrInvalidTitle), errors.Is(err, dom.ErrUnknownImportance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
		default:
			h.log.Error("update task", "user", p.Username, "task_id", id, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t, p.Username))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	p := auth.PrincipalFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p.UserID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task not found"})
			return
		}
		h.log.Error("delete task", "user", p.Username, "task_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
