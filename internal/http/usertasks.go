package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tazhibayda/tasks-service/internal/log"
)

// GetUserTask godoc
// @Summary Fetch one of the caller's task documents
// @Tags user-tasks
// @Security SessionCookie
// @Produce json
// @Param taskId path string true "task id"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/user-tasks/{taskId} [get]
func (h *Handler) GetUserTask(c *gin.Context) {
	u := userFrom(c)
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	doc, err := h.UserTasks.GetUserTask(c.Request.Context(), u.UID, taskID)
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Error("user task fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, normalizeTimestamps(doc))
}

// DeleteUserTask godoc
// @Summary Delete one of the caller's task documents
// @Tags user-tasks
// @Security SessionCookie
// @Produce json
// @Param taskId path string true "task id"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/user-tasks/{taskId} [delete]
func (h *Handler) DeleteUserTask(c *gin.Context) {
	u := userFrom(c)
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	ctx := c.Request.Context()

	// existence check first so "deleted" and "never existed" stay distinct
	// responses; two round trips, this is not a hot path
	doc, err := h.UserTasks.GetUserTask(ctx, u.UID, taskID)
	if err != nil {
		log.WithDD(ctx, log.L()).Error("user task fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	ok, err := h.UserTasks.DeleteUserTask(ctx, u.UID, taskID)
	if err != nil {
		log.WithDD(ctx, log.L()).Error("user task delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		// raced with another delete
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
