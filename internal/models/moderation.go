package models

import (
	"time"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ModerationAction is the typed command a moderator issues against a pending
// profile.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

// ModerationCommand pairs an action with the subject it applies to. It is
// validated before dispatch; an unknown action never reaches the workflow.
type ModerationCommand struct {
	Action  ModerationAction `json:"action"`
	Subject uint             `json:"subject"`
}

func (c ModerationCommand) Validate() error {
	if c.Action != ActionApprove && c.Action != ActionReject {
		return ErrInvalidInput
	}
	if c.Subject == 0 {
		return ErrInvalidInput
	}
	return nil
}

// ModerationRequest is the persisted verification request for a submitted
// profile. Once resolved its status leaves pending and the approve/reject
// controls are no longer offered.
type ModerationRequest struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	UserID     uint             `json:"user_id" gorm:"index;not null"`
	Snapshot   ProfileDraft     `json:"snapshot" gorm:"type:json;serializer:json"`
	Status     ModerationStatus `json:"status" gorm:"default:pending"`
	ResolvedBy uint             `json:"resolved_by"`
	ResolvedAt *time.Time       `json:"resolved_at"`
	CreatedAt  time.Time        `json:"created_at"`
}
