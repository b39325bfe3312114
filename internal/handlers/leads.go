package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/repository"
)

// ListLeads returns leads matching the query filters, highest intent first
func (h *Handlers) ListLeads(c *gin.Context) {
	filter, ok := parseLeadFilter(c)
	if !ok {
		return
	}
	leads, err := h.leads.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch leads")
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

func parseLeadFilter(c *gin.Context) (repository.LeadFilter, bool) {
	var f repository.LeadFilter

	if v := c.Query("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 10 {
			badRequest(c, "validation_error", "min_score must be an integer between 0 and 10")
			return f, false
		}
		f.MinScore = n
	}
	if v := c.Query("platform"); v != "" {
		p, err := model.ParsePlatform(strings.ToLower(v))
		if err != nil {
			badRequest(c, "validation_error", err.Error())
			return f, false
		}
		f.Platform = p
	}
	f.SourceLabel = c.Query("source")
	if v := c.Query("contacted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "validation_error", "contacted must be true or false")
			return f, false
		}
		f.Contacted = &b
	}
	if v := c.Query("since"); v != "" {
		t, err := parseSince(v)
		if err != nil {
			badRequest(c, "validation_error", "since must be RFC 3339 or YYYY-MM-DD")
			return f, false
		}
		f.Since = t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "validation_error", "limit must be a positive integer")
			return f, false
		}
		f.Limit = n
	}
	return f, true
}

func parseSince(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

// GetLead returns a single lead by ID
func (h *Handlers) GetLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.leads.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ToggleContacted flips the contacted flag
func (h *Handlers) ToggleContacted(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.leads.ToggleContacted(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to update lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateNotes replaces the operator notes
func (h *Handlers) UpdateNotes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", "Invalid request body")
		return
	}
	ctx := c.Request.Context()
	if err := h.leads.UpdateNotes(ctx, id, *req.Notes); err != nil {
		respondError(c, err, "Failed to update notes")
		return
	}
	lead, err := h.leads.GetByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to fetch lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DraftReply renders a reply for the lead without queueing it
func (h *Handlers) DraftReply(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}
	text, err := h.drafter.Draft(lead.Username, lead.Content, lead.SourceLabel, lead.IntentScore)
	if err != nil {
		respondError(c, err, "Failed to draft reply")
		return
	}
	c.JSON(http.StatusOK, DraftResponse{LeadID: lead.ID, ReplyText: text})
}

// QueueReply adds a pending reply for the lead. Without a body the reply is drafted.
func (h *Handlers) QueueReply(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}
	var req ReplyTextRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	text := strings.TrimSpace(req.ReplyText)
	if text == "" {
		drafted, err := h.drafter.Draft(lead.Username, lead.Content, lead.SourceLabel, lead.IntentScore)
		if err != nil {
			respondError(c, err, "Failed to draft reply")
			return
		}
		text = drafted
	}
	item, err := h.queue.Enqueue(c.Request.Context(), lead.ID, text, lead.URL)
	if err != nil {
		respondError(c, err, "Failed to queue reply")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListSources returns the distinct source labels
func (h *Handlers) ListSources(c *gin.Context) {
	labels, err := h.leads.SourceLabels(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch sources")
		return
	}
	if labels == nil {
		labels = []string{}
	}
	c.JSON(http.StatusOK, SourcesResponse{Sources: labels})
}

func (h *Handlers) loadLead(c *gin.Context) (*model.Lead, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	lead, err := h.leads.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch lead")
		return nil, false
	}
	return lead, true
}
