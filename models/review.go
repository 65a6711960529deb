package models

import "time"

type ReviewStatus string

const (
	ReviewPending      ReviewStatus = "pending"
	ReviewInProgress   ReviewStatus = "in_progress"
	ReviewCompleted    ReviewStatus = "completed"
	ReviewResubmission ReviewStatus = "resubmission"
)

type Recommendation string

const (
	RecommendAccept        Recommendation = "accept"
	RecommendMinorRevision Recommendation = "minor_revision"
	RecommendMajorRevision Recommendation = "major_revision"
	RecommendReject        Recommendation = "reject"
)

func ValidRecommendation(r Recommendation) bool {
	switch r {
	case RecommendAccept, RecommendMinorRevision, RecommendMajorRevision, RecommendReject:
		return true
	}
	return false
}

// Review is one reviewer's assessment of one article. One row per
// (article_id, reviewer_id) pair, enforced by upsert-on-assign semantics.
type Review struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	ArticleID      uint            `json:"article_id" gorm:"not null;index"`
	ReviewerID     uint            `json:"reviewer_id" gorm:"not null;index"`
	Status         ReviewStatus    `json:"status" gorm:"default:'pending'"`
	Recommendation *Recommendation `json:"recommendation"`
	Deadline       *time.Time      `json:"deadline"`
	Comments       *string         `json:"comments"`

	// Rubric fields: the fixed free-text peer review criteria.
	ImportanceApplicability *string `json:"importance_applicability" gorm:"type:text"`
	NoveltyApplication      *string `json:"novelty_application" gorm:"type:text"`
	Originality             *string `json:"originality" gorm:"type:text"`
	InnovationProduct       *string `json:"innovation_product" gorm:"type:text"`
	ResultsSignificance     *string `json:"results_significance" gorm:"type:text"`
	Coherence               *string `json:"coherence" gorm:"type:text"`
	StyleQuality            *string `json:"style_quality" gorm:"type:text"`
	EditorialCompliance     *string `json:"editorial_compliance" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasContent reports whether any rubric or comment field has been filled in.
// The unauthenticated article listing exposes only this flag, never the text.
func (r *Review) HasContent() bool {
	for _, f := range []*string{
		r.Comments,
		r.ImportanceApplicability,
		r.NoveltyApplication,
		r.Originality,
		r.InnovationProduct,
		r.ResultsSignificance,
		r.Coherence,
		r.StyleQuality,
		r.EditorialCompliance,
	} {
		if f != nil {
			return true
		}
	}
	return false
}

// ReviewSummary is the compact public projection of a review.
type ReviewSummary struct {
	ID         uint         `json:"id"`
	ArticleID  uint         `json:"article_id"`
	ReviewerID uint         `json:"reviewer_id"`
	Status     ReviewStatus `json:"status"`
	Deadline   *time.Time   `json:"deadline"`
	HasContent bool         `json:"has_content"`
}

func (r *Review) Summary() ReviewSummary {
	return ReviewSummary{
		ID:         r.ID,
		ArticleID:  r.ArticleID,
		ReviewerID: r.ReviewerID,
		Status:     r.Status,
		Deadline:   r.Deadline,
		HasContent: r.HasContent(),
	}
}
