package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-prospector-go/internal/model"
)

// ListQueue returns queue items, optionally filtered by status
func (h *Handlers) ListQueue(c *gin.Context) {
	status := model.ReplyStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "validation_error", "Unknown status "+strconv.Quote(string(status)))
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "validation_error", "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.queue.List(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err, "Failed to fetch queue")
		return
	}
	if items == nil {
		items = []model.ReplyQueueItem{}
	}
	c.JSON(http.StatusOK, items)
}

// GetQueueItem returns a single queue item
func (h *Handlers) GetQueueItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.queue.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch queue item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// EditQueueText replaces the draft of a pending or failed item
func (h *Handlers) EditQueueText(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReplyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", "Invalid request body")
		return
	}
	item, err := h.queue.EditText(c.Request.Context(), id, req.ReplyText)
	if err != nil {
		respondError(c, err, "Failed to edit reply")
		return
	}
	c.JSON(http.StatusOK, item)
}

// ApproveQueueItem approves an item, optionally replacing its text first
func (h *Handlers) ApproveQueueItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReplyTextRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	var edited *string
	if req.ReplyText != "" {
		edited = &req.ReplyText
	}
	item, err := h.queue.Approve(c.Request.Context(), id, edited)
	if err != nil {
		respondError(c, err, "Failed to approve reply")
		return
	}
	c.JSON(http.StatusOK, item)
}

// SkipQueueItem declines a pending item
func (h *Handlers) SkipQueueItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.queue.Skip(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to skip reply")
		return
	}
	c.JSON(http.StatusOK, item)
}
