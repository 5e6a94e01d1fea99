package actions

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/gotgas/internal/auth"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ActionHandler は POST /protected-action のハンドラーを返します。
// auth.Manager.RequireLogin の後ろに置く前提です。
func ActionHandler(rec Recorder, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		username, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
			return
		}

		if err := rec.Record(c.Request.Context(), NewEvent(username, ActionButton)); err != nil {
			logger.Printf("failed to record action user=%s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute action"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Button action executed successfully",
			"user":    username,
		})
	}
}

// HistoryHandler は GET /actions のハンドラーを返します。
func HistoryHandler(history History, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		username, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
			return
		}

		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		events, err := history.Recent(c.Request.Context(), username, limit)
		if err != nil {
			logger.Printf("failed to load actions user=%s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load actions"})
			return
		}
		if events == nil {
			events = []Event{}
		}
		c.JSON(http.StatusOK, gin.H{"actions": events})
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		return 0, errLimit
	}
	return limit, nil
}

var errLimit = fmt.Errorf("limit must be an integer between 1 and %d", maxHistoryLimit)
