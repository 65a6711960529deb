package models

import (
	"fmt"
	"strings"
	"time"
)

type ArticleStatus string

const (
	StatusDraft           ArticleStatus = "draft"
	StatusSubmitted       ArticleStatus = "submitted"
	StatusUnderReview     ArticleStatus = "under_review"
	StatusEditorCheck     ArticleStatus = "editor_check"
	StatusReviewerCheck   ArticleStatus = "reviewer_check"
	StatusSentForRevision ArticleStatus = "sent_for_revision"
	StatusAccepted        ArticleStatus = "accepted"
	StatusRejected        ArticleStatus = "rejected"
	StatusPublished       ArticleStatus = "published"
	StatusWithdrawn       ArticleStatus = "withdrawn"
)

func ValidArticleStatus(s ArticleStatus) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusEditorCheck,
		StatusReviewerCheck, StatusSentForRevision, StatusAccepted,
		StatusRejected, StatusPublished, StatusWithdrawn:
		return true
	}
	return false
}

type ArticleType string

const (
	TypeOriginal ArticleType = "original"
	TypeReview   ArticleType = "review"
)

func ValidArticleType(t ArticleType) bool {
	return t == TypeOriginal || t == TypeReview
}

type Article struct {
	ID                   uint          `json:"id" gorm:"primarykey"`
	TitleKZ              string        `json:"title_kz" gorm:"not null"`
	TitleEN              string        `json:"title_en" gorm:"not null"`
	TitleRU              string        `json:"title_ru" gorm:"not null"`
	AbstractKZ           *string       `json:"abstract_kz"`
	AbstractEN           *string       `json:"abstract_en"`
	AbstractRU           *string       `json:"abstract_ru"`
	DOI                  *string       `json:"doi"`
	Status               ArticleStatus `json:"status" gorm:"default:'submitted'"`
	ArticleType          ArticleType   `json:"article_type" gorm:"not null;default:'original'"`
	ResponsibleUserID    uint          `json:"responsible_user_id" gorm:"not null;index"`
	AssignedEditorID     *uint         `json:"assigned_editor_id"`
	ManuscriptFileURL    *string       `json:"manuscript_file_url"`
	AntiplagiarismFileURL *string      `json:"antiplagiarism_file_url"`
	AuthorInfoFileURL    *string       `json:"author_info_file_url"`
	CoverLetterFileURL   *string       `json:"cover_letter_file_url"`
	NotPublishedElsewhere bool         `json:"not_published_elsewhere" gorm:"default:false"`
	PlagiarismFree       bool          `json:"plagiarism_free" gorm:"default:false"`
	AuthorsAgree         bool          `json:"authors_agree" gorm:"default:false"`
	GenerativeAIInfo     *string       `json:"generative_ai_info"`
	CurrentVersionID     *uint         `json:"current_version_id"`
	Authors              []Author      `json:"authors" gorm:"many2many:article_authors;"`
	Keywords             []Keyword     `json:"keywords" gorm:"many2many:article_keywords;"`
	Versions             []ArticleVersion `json:"versions,omitempty" gorm:"foreignKey:ArticleID"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ArticleReviewer links an article to a platform user tasked with reviewing
// it. The user id is a cross-service reference by value; the Review Ledger
// owns the actual Review row.
type ArticleReviewer struct {
	ArticleID uint `json:"article_id" gorm:"primarykey"`
	UserID    uint `json:"user_id" gorm:"primarykey"`
}

func (ArticleReviewer) TableName() string { return "article_reviewers" }

// FileURL converts an opaque blob store id into the download path form
// persisted on articles and versions: /files/{id}/download.
func FileURL(fileID *string) *string {
	if fileID == nil || *fileID == "" {
		return nil
	}
	url := fmt.Sprintf("/files/%s/download", *fileID)
	return &url
}

// FileIDFromURL is the inverse of FileURL: it recovers the blob store id
// from a persisted /files/{id}/download path.
func FileIDFromURL(url *string) (string, bool) {
	if url == nil {
		return "", false
	}
	rest, ok := strings.CutPrefix(*url, "/files/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/download")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
