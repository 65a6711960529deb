package models

import "time"

type ArticleCreateRequest struct {
	TitleKZ               string      `json:"title_kz" binding:"required"`
	TitleEN               string      `json:"title_en" binding:"required"`
	TitleRU               string      `json:"title_ru" binding:"required"`
	AbstractKZ            *string     `json:"abstract_kz"`
	AbstractEN            *string     `json:"abstract_en"`
	AbstractRU            *string     `json:"abstract_ru"`
	DOI                   *string     `json:"doi"`
	ArticleType           ArticleType `json:"article_type"`
	ManuscriptFileID      *string     `json:"manuscript_file_id"`
	AntiplagiarismFileID  *string     `json:"antiplagiarism_file_id"`
	AuthorInfoFileID      *string     `json:"author_info_file_id"`
	CoverLetterFileID     *string     `json:"cover_letter_file_id"`
	NotPublishedElsewhere bool        `json:"not_published_elsewhere"`
	PlagiarismFree        bool        `json:"plagiarism_free"`
	AuthorsAgree          bool        `json:"authors_agree"`
	GenerativeAIInfo      *string     `json:"generative_ai_info"`
	AuthorIDs             []uint      `json:"author_ids"`
	KeywordIDs            []uint      `json:"keyword_ids"`
}

// ArticleUpdateRequest is a partial patch: nil means "leave unchanged".
type ArticleUpdateRequest struct {
	TitleKZ               *string      `json:"title_kz"`
	TitleEN               *string      `json:"title_en"`
	TitleRU               *string      `json:"title_ru"`
	AbstractKZ            *string      `json:"abstract_kz"`
	AbstractEN            *string      `json:"abstract_en"`
	AbstractRU            *string      `json:"abstract_ru"`
	DOI                   *string      `json:"doi"`
	ArticleType           *ArticleType `json:"article_type"`
	ManuscriptFileID      *string      `json:"manuscript_file_id"`
	AntiplagiarismFileID  *string      `json:"antiplagiarism_file_id"`
	AuthorInfoFileID      *string      `json:"author_info_file_id"`
	CoverLetterFileID     *string      `json:"cover_letter_file_id"`
	NotPublishedElsewhere *bool        `json:"not_published_elsewhere"`
	PlagiarismFree        *bool        `json:"plagiarism_free"`
	AuthorsAgree          *bool        `json:"authors_agree"`
	GenerativeAIInfo      *string      `json:"generative_ai_info"`
	AuthorIDs             []uint       `json:"author_ids"`
	KeywordIDs            []uint       `json:"keyword_ids"`
}

type ChangeStatusRequest struct {
	Status ArticleStatus `json:"status" binding:"required"`
}

type AssignEditorRequest struct {
	EditorID uint `json:"editor_id" binding:"required"`
}

type AssignReviewersRequest struct {
	ReviewerIDs []uint     `json:"reviewer_ids" binding:"required,min=1"`
	Deadline    *time.Time `json:"deadline"`
}

type UnassignedListParams struct {
	Status      string `form:"status"`
	AuthorName  string `form:"author_name"`
	Year        int    `form:"year"`
	ArticleType string `form:"article_type"`
	Keywords    string `form:"keywords"`
	Search      string `form:"search"`
	Page        int    `form:"page,default=1"`
	PageSize    int    `form:"page_size,default=10"`
}

type AuthorCreateRequest struct {
	Email           string  `json:"email" binding:"required,email"`
	Prefix          *string `json:"prefix"`
	FirstName       string  `json:"first_name" binding:"required"`
	Patronymic      *string `json:"patronymic"`
	LastName        string  `json:"last_name" binding:"required"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Country         string  `json:"country" binding:"required"`
	Affiliation1    string  `json:"affiliation1" binding:"required"`
	Affiliation2    *string `json:"affiliation2"`
	Affiliation3    *string `json:"affiliation3"`
	IsCorresponding bool    `json:"is_corresponding"`
	ORCID           *string `json:"orcid"`
	ScopusAuthorID  *string `json:"scopus_author_id"`
	ResearcherID    *string `json:"researcher_id"`
}

type KeywordCreateRequest struct {
	TitleKZ string `json:"title_kz" binding:"required"`
	TitleEN string `json:"title_en" binding:"required"`
	TitleRU string `json:"title_ru" binding:"required"`
}

type VolumeCreateRequest struct {
	Year        int     `json:"year" binding:"required"`
	Number      int     `json:"number" binding:"required"`
	Month       *int    `json:"month"`
	TitleKZ     *string `json:"title_kz"`
	TitleEN     *string `json:"title_en"`
	TitleRU     *string `json:"title_ru"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	ArticleIDs  []uint  `json:"article_ids"`
}

// VolumeUpdateRequest is a partial patch; ArticleIDs non-nil means full
// replacement of the volume's article set.
type VolumeUpdateRequest struct {
	Year        *int    `json:"year"`
	Number      *int    `json:"number"`
	Month       *int    `json:"month"`
	TitleKZ     *string `json:"title_kz"`
	TitleEN     *string `json:"title_en"`
	TitleRU     *string `json:"title_ru"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	ArticleIDs  []uint  `json:"article_ids"`
}

type VolumeListParams struct {
	Year       *int  `form:"year"`
	Number     *int  `form:"number"`
	Month      *int  `form:"month"`
	ActiveOnly *bool `form:"active_only"`
}

type ReviewAssignRequest struct {
	ArticleID  uint       `json:"article_id" binding:"required"`
	ReviewerID uint       `json:"reviewer_id" binding:"required"`
	Deadline   *time.Time `json:"deadline"`
}

const (
	ReviewActionSave   = "save"
	ReviewActionSubmit = "submit"
)

type ReviewUpdateRequest struct {
	Action         string          `json:"action" binding:"required"`
	Recommendation *Recommendation `json:"recommendation"`
	Comments       *string         `json:"comments"`

	ImportanceApplicability *string `json:"importance_applicability"`
	NoveltyApplication      *string `json:"novelty_application"`
	Originality             *string `json:"originality"`
	InnovationProduct       *string `json:"innovation_product"`
	ResultsSignificance     *string `json:"results_significance"`
	Coherence               *string `json:"coherence"`
	StyleQuality            *string `json:"style_quality"`
	EditorialCompliance     *string `json:"editorial_compliance"`
}

type ResubmissionRequest struct {
	Deadline *time.Time `json:"deadline"`
}

type EditorialTaskCreateRequest struct {
	ArticleID   uint        `json:"article_id" binding:"required"`
	ReviewerIDs ReviewerIDs `json:"reviewer_ids"`
}

type EditorialTaskUpdateRequest struct {
	Status          WorkflowStatus `json:"status" binding:"required"`
	Decision        *string        `json:"decision"`
	DecisionComment *string        `json:"decision_comment"`
	ReviewerIDs     ReviewerIDs    `json:"reviewer_ids"`
}

// Pagination is the envelope metadata for paginated listings.
type Pagination struct {
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type PagedArticles struct {
	Items      []Article  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ReviewerProfile is the merged reviewer object built from the user profile
// and auth identity stores; either source may be missing, leaving its
// fields null.
type ReviewerProfile struct {
	ID                *uint    `json:"id"`
	UserID            uint     `json:"user_id"`
	FullName          *string  `json:"full_name"`
	Phone             *string  `json:"phone"`
	Organization      *string  `json:"organization"`
	Roles             []string `json:"roles"`
	PreferredLanguage *string  `json:"preferred_language"`
	IsActive          *bool    `json:"is_active"`
	Username          *string  `json:"username"`
	Email             *string  `json:"email"`
	FirstName         *string  `json:"first_name"`
	LastName          *string  `json:"last_name"`
	Institution       *string  `json:"institution"`
}

// ArticleReviewerInfo is one entry of the reviewer-list aggregation.
type ArticleReviewerInfo struct {
	ReviewID   *uint            `json:"review_id"`
	ReviewerID uint             `json:"reviewer_id"`
	Status     *ReviewStatus    `json:"status"`
	Deadline   *time.Time       `json:"deadline"`
	Reviewer   *ReviewerProfile `json:"reviewer"`
}
