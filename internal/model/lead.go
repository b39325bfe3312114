package model

import "time"

const (
	// MaxContentLength bounds the stored lead content, in runes
	MaxContentLength = 2000
	// MaxExcerptLength bounds content excerpts sent in notifications, in runes
	MaxExcerptLength = 500
)

// Lead is a discovered post, comment or listing with buying intent
type Lead struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Platform    Platform  `json:"platform" gorm:"type:varchar(32);not null;index"`
	Username    string    `json:"username" gorm:"type:varchar(255);not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	URL         string    `json:"url" gorm:"type:varchar(768);not null;uniqueIndex"`
	SourceLabel string    `json:"source_label" gorm:"type:varchar(255);not null;index"`
	IntentScore int       `json:"intent_score" gorm:"not null;index"`
	FoundAt     time.Time `json:"found_at" gorm:"not null"`
	Contacted   bool      `json:"contacted" gorm:"not null;default:false"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
