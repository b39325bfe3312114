package replyqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/repository"
)

// ErrInvalidTransition is returned when the current status does not allow the requested action
var ErrInvalidTransition = errors.New("invalid queue transition")

// ErrEmptyText is returned when an edit would leave the draft empty
var ErrEmptyText = errors.New("reply text must not be empty")

var editableStatuses = []model.ReplyStatus{model.ReplyPending, model.ReplyFailed}

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, item *model.ReplyQueueItem) error
	CreateAuto(ctx context.Context, item *model.ReplyQueueItem) (bool, error)
	GetByID(ctx context.Context, id uint) (*model.ReplyQueueItem, error)
	List(ctx context.Context, status model.ReplyStatus, limit int) ([]model.ReplyQueueItem, error)
	OldestApproved(ctx context.Context) (*model.ReplyQueueItem, error)
	Transition(ctx context.Context, id uint, from []model.ReplyStatus, to model.ReplyStatus, fields map[string]interface{}) (bool, error)
	UpdateText(ctx context.Context, id uint, text string, editable []model.ReplyStatus) (bool, error)
}

// Service enforces the reply approval state machine
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Enqueue always creates a new pending item
func (s *Service) Enqueue(ctx context.Context, leadID uint, text, targetURL string) (*model.ReplyQueueItem, error) {
	item := &model.ReplyQueueItem{LeadID: leadID, ReplyText: text, TargetURL: targetURL}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"item_id": item.ID, "lead_id": leadID}).Info("Reply queued")
	return item, nil
}

// EnqueueAuto creates the lead's auto-drafted item unless one already exists
func (s *Service) EnqueueAuto(ctx context.Context, leadID uint, text, targetURL string) (bool, error) {
	item := &model.ReplyQueueItem{LeadID: leadID, ReplyText: text, TargetURL: targetURL}
	created, err := s.store.CreateAuto(ctx, item)
	if err != nil {
		return false, err
	}
	if created {
		logrus.WithFields(logrus.Fields{"item_id": item.ID, "lead_id": leadID}).Info("Reply auto-queued")
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.ReplyQueueItem, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status model.ReplyStatus, limit int) ([]model.ReplyQueueItem, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidTransition)
	}
	return s.store.List(ctx, status, limit)
}

// NextApproved returns the approved item that has waited longest, or nil
func (s *Service) NextApproved(ctx context.Context) (*model.ReplyQueueItem, error) {
	return s.store.OldestApproved(ctx)
}

// Approve freezes the draft and hands it to the dispatcher. When editedText is
// set it replaces the draft first. Approving an approved item is a no-op.
func (s *Service) Approve(ctx context.Context, id uint, editedText *string) (*model.ReplyQueueItem, error) {
	if editedText != nil {
		if _, err := s.EditText(ctx, id, *editedText); err != nil {
			item, getErr := s.store.GetByID(ctx, id)
			if getErr != nil || item.Status != model.ReplyApproved || item.ReplyText != strings.TrimSpace(*editedText) {
				return nil, err
			}
			return item, nil
		}
	}

	now := s.now()
	ok, err := s.store.Transition(ctx, id, model.SourcesFor(model.ReplyApproved), model.ReplyApproved,
		map[string]interface{}{"approved_at": now, "error_message": ""})
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok && item.Status != model.ReplyApproved {
		return nil, fmt.Errorf("cannot approve item %d in status %s: %w", id, item.Status, ErrInvalidTransition)
	}
	if ok {
		logrus.WithField("item_id", id).Info("Reply approved")
	}
	return item, nil
}

// Skip declines a pending draft. Skipping a skipped item is a no-op.
func (s *Service) Skip(ctx context.Context, id uint) (*model.ReplyQueueItem, error) {
	ok, err := s.store.Transition(ctx, id, model.SourcesFor(model.ReplySkipped), model.ReplySkipped, nil)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok && item.Status != model.ReplySkipped {
		return nil, fmt.Errorf("cannot skip item %d in status %s: %w", id, item.Status, ErrInvalidTransition)
	}
	if ok {
		logrus.WithField("item_id", id).Info("Reply skipped")
	}
	return item, nil
}

// EditText replaces the draft while it is pending or failed
func (s *Service) EditText(ctx context.Context, id uint, text string) (*model.ReplyQueueItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	ok, err := s.store.UpdateText(ctx, id, text, editableStatuses)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok && !(isEditable(item.Status) && item.ReplyText == text) {
		return nil, fmt.Errorf("cannot edit item %d in status %s: %w", id, item.Status, ErrInvalidTransition)
	}
	return item, nil
}

// MarkPosted records a successful delivery
func (s *Service) MarkPosted(ctx context.Context, id uint) error {
	ok, err := s.store.Transition(ctx, id, model.SourcesFor(model.ReplyPosted), model.ReplyPosted,
		map[string]interface{}{"posted_at": s.now(), "error_message": ""})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot mark item %d posted: %w", id, ErrInvalidTransition)
	}
	return nil
}

// MarkFailed records a failed delivery with a bounded error message
func (s *Service) MarkFailed(ctx context.Context, id uint, cause error) error {
	msg := "unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	ok, err := s.store.Transition(ctx, id, model.SourcesFor(model.ReplyFailed), model.ReplyFailed,
		map[string]interface{}{"error_message": model.Truncate(msg, model.MaxErrorMessageLength)})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot mark item %d failed: %w", id, ErrInvalidTransition)
	}
	return nil
}

func isEditable(status model.ReplyStatus) bool {
	for _, s := range editableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var _ Store = (*repository.ReplyQueueRepository)(nil)
