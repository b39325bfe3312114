package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social-prospector-go/internal/model"
)

// LeadFilter narrows a lead listing
type LeadFilter struct {
	MinScore    int
	Platform    model.Platform
	SourceLabel string
	Contacted   *bool
	Since       time.Time
	Limit       int
}

const defaultListLimit = 500

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Insert stores the lead unless its URL is already known. It reports whether a
// new row was written; the first stored record always wins.
func (r *LeadRepository) Insert(ctx context.Context, lead *model.Lead) (bool, error) {
	if lead.FoundAt.IsZero() {
		lead.FoundAt = time.Now()
	}
	lead.Content = model.Truncate(lead.Content, model.MaxContentLength)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
		Create(lead)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		lead.ID = 0
		return false, nil
	}
	return true, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id uint) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get lead %d: %w", id, notFound(err))
	}
	return &lead, nil
}

func (r *LeadRepository) GetByURL(ctx context.Context, url string) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&lead).Error; err != nil {
		return nil, fmt.Errorf("failed to get lead by url: %w", notFound(err))
	}
	return &lead, nil
}

// List returns leads ordered by score, newest first within a score
func (r *LeadRepository) List(ctx context.Context, f LeadFilter) ([]model.Lead, error) {
	q := r.db.WithContext(ctx).Model(&model.Lead{})
	if f.MinScore > 0 {
		q = q.Where("intent_score >= ?", f.MinScore)
	}
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	if f.SourceLabel != "" {
		q = q.Where("source_label = ?", f.SourceLabel)
	}
	if f.Contacted != nil {
		q = q.Where("contacted = ?", *f.Contacted)
	}
	if !f.Since.IsZero() {
		q = q.Where("found_at >= ?", f.Since)
	}
	limit := f.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var leads []model.Lead
	result := q.Order("intent_score DESC").Order("found_at DESC").Order("id DESC").Limit(limit).Find(&leads)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list leads: %w", result.Error)
	}
	return leads, nil
}

// ToggleContacted flips the contacted flag and returns the updated lead
func (r *LeadRepository) ToggleContacted(ctx context.Context, id uint) (*model.Lead, error) {
	result := r.db.WithContext(ctx).Model(&model.Lead{}).Where("id = ?", id).
		Update("contacted", gorm.Expr("NOT contacted"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to toggle contacted: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to toggle contacted on lead %d: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *LeadRepository) UpdateNotes(ctx context.Context, id uint, notes string) error {
	result := r.db.WithContext(ctx).Model(&model.Lead{}).Where("id = ?", id).Update("notes", notes)
	if result.Error != nil {
		return fmt.Errorf("failed to update notes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// AppendNoteTag adds tag to the notes of the lead with url unless already present
func (r *LeadRepository) AppendNoteTag(ctx context.Context, url, tag string) error {
	lead, err := r.GetByURL(ctx, url)
	if err != nil {
		return err
	}
	if strings.Contains(lead.Notes, tag) {
		return nil
	}
	notes := strings.TrimSpace(lead.Notes + " " + tag)
	result := r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ? AND notes = ?", lead.ID, lead.Notes).
		Update("notes", notes)
	if result.Error != nil {
		return fmt.Errorf("failed to append note tag: %w", result.Error)
	}
	return nil
}

// SourceLabels returns the distinct source labels seen so far
func (r *LeadRepository) SourceLabels(ctx context.Context) ([]string, error) {
	var labels []string
	result := r.db.WithContext(ctx).Model(&model.Lead{}).
		Distinct("source_label").Order("source_label").Pluck("source_label", &labels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list source labels: %w", result.Error)
	}
	return labels, nil
}
