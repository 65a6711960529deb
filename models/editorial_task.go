package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type WorkflowStatus string

const (
	WorkflowSubmitted       WorkflowStatus = "submitted"
	WorkflowUnderReview     WorkflowStatus = "under_review"
	WorkflowDecisionPending WorkflowStatus = "decision_pending"
	WorkflowAccepted        WorkflowStatus = "accepted"
	WorkflowRejected        WorkflowStatus = "rejected"
)

func ValidWorkflowStatus(s WorkflowStatus) bool {
	switch s {
	case WorkflowSubmitted, WorkflowUnderReview, WorkflowDecisionPending,
		WorkflowAccepted, WorkflowRejected:
		return true
	}
	return false
}

// ReviewerIDs is a JSON-encoded list of reviewer user ids stored by value;
// the Review Ledger owns the actual assignments.
type ReviewerIDs []uint

func (ids ReviewerIDs) Value() (driver.Value, error) {
	if ids == nil {
		return nil, nil
	}
	return json.Marshal(ids)
}

func (ids *ReviewerIDs) Scan(value interface{}) error {
	if value == nil {
		*ids = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ids)
	case string:
		return json.Unmarshal([]byte(v), ids)
	default:
		return errors.New("unsupported type for ReviewerIDs")
	}
}

// EditorialTask is a per-article, per-editor decision record. It references
// article and reviewer ids by value and gates nothing in other services.
type EditorialTask struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	ArticleID       uint           `json:"article_id" gorm:"not null;index"`
	EditorID        uint           `json:"editor_id" gorm:"not null;index"`
	Status          WorkflowStatus `json:"status" gorm:"default:'submitted'"`
	Decision        *string        `json:"decision"`
	DecisionComment *string        `json:"decision_comment"`
	ReviewerIDs     ReviewerIDs    `json:"reviewer_ids" gorm:"type:json"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
