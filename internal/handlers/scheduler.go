package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-prospector-go/internal/dispatcher"
)

// TriggerScan starts a scan in the background
func (h *Handlers) TriggerScan(c *gin.Context) {
	if err := h.scheduler.TriggerAsync(); err != nil {
		respondError(c, err, "Failed to start scan")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// GetScanStatus returns the scheduler and last scan summary
func (h *Handlers) GetScanStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// StartScheduler starts the periodic scan. Starting a running scheduler is a no-op.
func (h *Handlers) StartScheduler(c *gin.Context) {
	if !h.scheduler.IsRunning() {
		if err := h.scheduler.Start(); err != nil && !h.scheduler.IsRunning() {
			respondError(c, err, "Failed to start scheduler")
			return
		}
	}
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// StopScheduler stops the periodic scan
func (h *Handlers) StopScheduler(c *gin.Context) {
	if err := h.scheduler.Stop(); err != nil {
		respondError(c, err, "Failed to stop scheduler")
		return
	}
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// GetDispatcherStatus returns the reply dispatcher state
func (h *Handlers) GetDispatcherStatus(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusOK, dispatcher.Status{})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Status())
}
