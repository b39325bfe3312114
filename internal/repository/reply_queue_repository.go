package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social-prospector-go/internal/model"
)

type ReplyQueueRepository struct {
	db *gorm.DB
}

func NewReplyQueueRepository(db *gorm.DB) *ReplyQueueRepository {
	return &ReplyQueueRepository{db: db}
}

func (r *ReplyQueueRepository) Create(ctx context.Context, item *model.ReplyQueueItem) error {
	item.Status = model.ReplyPending
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create queue item: %w", err)
	}
	return nil
}

// CreateAuto stores an auto-drafted item unless the lead already has one.
// It reports whether the item was created.
func (r *ReplyQueueRepository) CreateAuto(ctx context.Context, item *model.ReplyQueueItem) (bool, error) {
	leadID := item.LeadID
	item.AutoLeadID = &leadID
	item.Status = model.ReplyPending

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "auto_lead_id"}}, DoNothing: true}).
		Create(item)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create auto queue item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		item.ID = 0
		return false, nil
	}
	return true, nil
}

func (r *ReplyQueueRepository) HasItemForLead(ctx context.Context, leadID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.ReplyQueueItem{}).Where("lead_id = ?", leadID).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check queue for lead %d: %w", leadID, result.Error)
	}
	return count > 0, nil
}

func (r *ReplyQueueRepository) GetByID(ctx context.Context, id uint) (*model.ReplyQueueItem, error) {
	var item model.ReplyQueueItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get queue item %d: %w", id, notFound(err))
	}
	return &item, nil
}

// List returns items newest first, optionally restricted to one status
func (r *ReplyQueueRepository) List(ctx context.Context, status model.ReplyStatus, limit int) ([]model.ReplyQueueItem, error) {
	q := r.db.WithContext(ctx).Model(&model.ReplyQueueItem{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var items []model.ReplyQueueItem
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	return items, nil
}

// OldestApproved returns the approved item that has waited longest, or nil
func (r *ReplyQueueRepository) OldestApproved(ctx context.Context) (*model.ReplyQueueItem, error) {
	var items []model.ReplyQueueItem
	result := r.db.WithContext(ctx).
		Where("status = ?", model.ReplyApproved).
		Order("approved_at ASC").Order("id ASC").
		Limit(1).Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch oldest approved item: %w", result.Error)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Transition moves the item to status to when its current status is one of
// from. The update is conditional so concurrent callers cannot both succeed.
// It reports whether the row changed.
func (r *ReplyQueueRepository) Transition(ctx context.Context, id uint, from []model.ReplyStatus, to model.ReplyStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	result := r.db.WithContext(ctx).Model(&model.ReplyQueueItem{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to move queue item %d to %s: %w", id, to, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateText replaces the draft text while the item is still editable
func (r *ReplyQueueRepository) UpdateText(ctx context.Context, id uint, text string, editable []model.ReplyStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.ReplyQueueItem{}).
		Where("id = ? AND status IN ?", id, editable).
		Update("reply_text", text)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update reply text: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
