package handlers

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Profile   string            `json:"profile"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// NotesRequest replaces a lead's operator notes
type NotesRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

// ReplyTextRequest carries an operator-written reply
type ReplyTextRequest struct {
	ReplyText string `json:"reply_text"`
}

// DraftResponse is a rendered reply draft
type DraftResponse struct {
	LeadID    uint   `json:"lead_id"`
	ReplyText string `json:"reply_text"`
}

// SourcesResponse lists the distinct source labels of stored leads
type SourcesResponse struct {
	Sources []string `json:"sources"`
}
