package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"social-prospector-go/internal/dispatcher"
	"social-prospector-go/internal/profile"
	"social-prospector-go/internal/reply"
	"social-prospector-go/internal/replyqueue"
	"social-prospector-go/internal/repository"
	"social-prospector-go/internal/scheduler"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db         *gorm.DB
	profile    *profile.Profile
	leads      *repository.LeadRepository
	queue      *replyqueue.Service
	drafter    *reply.Drafter
	scheduler  *scheduler.Scheduler
	dispatcher *dispatcher.Dispatcher
	gatherer   prometheus.Gatherer
}

// NewHandlers creates new HTTP handlers
func NewHandlers(
	db *gorm.DB,
	p *profile.Profile,
	leads *repository.LeadRepository,
	queue *replyqueue.Service,
	drafter *reply.Drafter,
	s *scheduler.Scheduler,
	d *dispatcher.Dispatcher,
	gatherer prometheus.Gatherer,
) *Handlers {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		db:         db,
		profile:    p,
		leads:      leads,
		queue:      queue,
		drafter:    drafter,
		scheduler:  s,
		dispatcher: d,
		gatherer:   gatherer,
	}
}

// SetupRoutes registers every route on router
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.GET("/leads", h.ListLeads)
		api.GET("/leads/:id", h.GetLead)
		api.PATCH("/leads/:id/contacted", h.ToggleContacted)
		api.PUT("/leads/:id/notes", h.UpdateNotes)
		api.POST("/leads/:id/draft-reply", h.DraftReply)
		api.POST("/leads/:id/queue", h.QueueReply)
		api.GET("/sources", h.ListSources)

		api.GET("/queue", h.ListQueue)
		api.GET("/queue/:id", h.GetQueueItem)
		api.PUT("/queue/:id/text", h.EditQueueText)
		api.POST("/queue/:id/approve", h.ApproveQueueItem)
		api.POST("/queue/:id/skip", h.SkipQueueItem)

		api.POST("/scan", h.TriggerScan)
		api.GET("/scan/status", h.GetScanStatus)
		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.GET("/dispatcher/status", h.GetDispatcherStatus)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid_id", "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON binds the body when one was sent
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "validation_error", "Invalid request body")
		return false
	}
	return true
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   code,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error, message string) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, replyqueue.ErrEmptyText):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, replyqueue.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, scheduler.ErrScanInProgress):
		status, code = http.StatusConflict, "scan_in_progress"
	}

	if status == http.StatusInternalServerError {
		logrus.Errorf("%s: %v", message, err)
	} else {
		message = message + ": " + err.Error()
	}
	c.JSON(status, ErrorResponse{Error: code, Message: message, Code: status})
}
