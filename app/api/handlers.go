package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"version":         h.version,
		"search_centers":  h.centers,
		"digest_interval": h.interval.String(),
	}

	if record := h.status.Last(); record != nil {
		health["last_run_at"] = record.StartedAt.Format(time.RFC3339)
		health["last_run_dispatched"] = record.Dispatched
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	record := h.status.Last()
	if record == nil {
		c.JSON(http.StatusOK, gin.H{"runs": 0, "message": "No digest run has completed yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":     record.RunID,
		"started_at": record.StartedAt.Format(time.RFC3339),
		"duration":   record.Duration.String(),
		"centers":    record.Centers,
		"listings":   record.Listings,
		"dispatched": record.Dispatched,
		"error":      record.Error,
	})
}

// GetPreview serves the HTML body of the most recent digest, so the report
// can be inspected without digging through a mailbox.
func (h *Handler) GetPreview(c *gin.Context) {
	record := h.status.Last()
	if record == nil || record.HTML == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No rendered digest available yet"})
		return
	}

	c.Header("X-Run-ID", record.RunID)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(record.HTML))
}

func (h *Handler) TriggerRun(c *gin.Context) {
	task := h.newDigestTask()

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing digest task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue digest task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Digest task enqueued",
		"task_id": task.GetID(),
	})
}
