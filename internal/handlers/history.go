package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Arieh-code/task-managment-project/internal/auth"
	dom "github.com/Arieh-code/task-managment-project/internal/domain"
	"github.com/Arieh-code/task-managment-project/internal/dto"
	"github.com/Arieh-code/task-managment-project/internal/repo"
	"github.com/Arieh-code/task-managment-project/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the completed-task history queries.
type HistoryHandler struct {
	svc *service.HistoryService
	log *slog.Logger
}

func NewHistoryHandler(svc *service.HistoryService, log *slog.Logger) *HistoryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryHandler{svc: svc, log: log}
}

// CompletedHistory godoc
// @Summary      List the caller's completed-task history
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        month       query  int     false  "Calendar month 1-12"
// @Param        year        query  string  false  "Calendar year, up to 4 digits"
// @Param        importance  query  string  false  "Filter by task importance"
// @Param        sort        query  string  false  "Sort: importance (severity rank)"
// @Success      200  {array}   dto.HistoryResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/completed-history [get]
func (h *HistoryHandler) CompletedHistory(c *gin.Context) {
	p := auth.PrincipalFromContext(c)

	month, err := dto.ParseMonth(c.Query("month"))
	if err != nil {
		h.log.Warn("completed history validation", "user", p.Username, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error"})
		return
	}
	year, err := dto.ParseYear(c.Query("year"))
	if err != nil {
		h.log.Warn("completed history validation", "user", p.Username, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error"})
		return
	}

	f := repo.HistoryFilter{Month: month, Year: year}
	if raw := c.Query("importance"); raw != "" {
		imp := dom.Importance(raw)
		if !imp.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation error"})
			return
		}
		f.Importance = &imp
	}

	list, err := h.svc.ListCompleted(c.Request.Context(), p.UserID, f, c.Query("sort") == "importance")
	if err != nil {
		h.log.Error("completed history", "user", p.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred while retrieving completed tasks"})
		return
	}
	c.JSON(http.StatusOK, dto.HistoryToResponses(list))
}
