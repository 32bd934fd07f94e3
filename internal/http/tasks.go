package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/tasks-service/internal/log"
)

// ListTasks godoc
// @Summary List catalog tasks by module
// @Tags tasks
// @Produce json
// @Param module query string true "module filter"
// @Param section query string false "section filter"
// @Success 200 {array} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	module := strings.TrimSpace(c.Query("module"))
	if module == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "module is required"})
		return
	}
	items, err := h.Tasks.ListTasks(c.Request.Context(), module, c.Query("section"))
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Error("task list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, doc := range items {
		out = append(out, annotateID(doc))
	}
	c.JSON(http.StatusOK, out)
}

// GetTask godoc
// @Summary Fetch a catalog task by its external task id
// @Tags tasks
// @Produce json
// @Param taskId path string true "external task id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/{taskId} [get]
func (h *Handler) GetTask(c *gin.Context) {
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	doc, err := h.Tasks.FindTaskByTaskID(c.Request.Context(), taskID)
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Error("task fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, normalizeTimestamps(doc))
}
