package model

import "time"

// MaxErrorMessageLength bounds the stored dispatch error, in runes
const MaxErrorMessageLength = 500

// ReplyStatus is the lifecycle state of a queued reply
type ReplyStatus string

const (
	ReplyPending  ReplyStatus = "pending"
	ReplyApproved ReplyStatus = "approved"
	ReplyPosted   ReplyStatus = "posted"
	ReplySkipped  ReplyStatus = "skipped"
	ReplyFailed   ReplyStatus = "failed"
)

var replyTransitions = map[ReplyStatus][]ReplyStatus{
	ReplyPending:  {ReplyApproved, ReplySkipped},
	ReplyApproved: {ReplyPosted, ReplyFailed},
	ReplyFailed:   {ReplyApproved},
}

// Valid reports whether s is a known status
func (s ReplyStatus) Valid() bool {
	switch s {
	case ReplyPending, ReplyApproved, ReplyPosted, ReplySkipped, ReplyFailed:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s
func (s ReplyStatus) Terminal() bool {
	return len(replyTransitions[s]) == 0
}

// CanTransition reports whether the queue state machine allows from -> to
func CanTransition(from, to ReplyStatus) bool {
	for _, next := range replyTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SourcesFor returns every status that may transition into to
func SourcesFor(to ReplyStatus) []ReplyStatus {
	var out []ReplyStatus
	for _, from := range []ReplyStatus{ReplyPending, ReplyApproved, ReplyPosted, ReplySkipped, ReplyFailed} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// ReplyQueueItem is a drafted reply awaiting operator approval
type ReplyQueueItem struct {
	ID     uint `json:"id" gorm:"primaryKey;autoIncrement"`
	LeadID uint `json:"lead_id" gorm:"not null;index"`
	// AutoLeadID is only set on auto-drafted items; the unique index keeps
	// auto-enqueue to one item per lead
	AutoLeadID   *uint       `json:"-" gorm:"uniqueIndex"`
	ReplyText    string      `json:"reply_text" gorm:"type:text;not null"`
	TargetURL    string      `json:"target_url" gorm:"type:varchar(768);not null"`
	Status       ReplyStatus `json:"status" gorm:"type:varchar(16);not null;index;default:'pending'"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time   `json:"updated_at"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	PostedAt     *time.Time  `json:"posted_at,omitempty"`
	ErrorMessage string      `json:"error_message" gorm:"type:text"`
}

// TableName specifies the table name for ReplyQueueItem
func (ReplyQueueItem) TableName() string {
	return "reply_queue"
}
