package models

import (
	"fmt"
	"time"
)

// ArticleVersion is an immutable point-in-time snapshot of an article's
// reviewable content. Rows are only ever inserted; the audit trail a
// reviewer or editor sees must not change under them.
type ArticleVersion struct {
	ID            uint   `json:"id" gorm:"primarykey"`
	ArticleID     uint   `json:"article_id" gorm:"not null;index"`
	VersionNumber int    `json:"version_number" gorm:"not null"`
	VersionCode   string `json:"version_code"`

	TitleKZ    string  `json:"title_kz" gorm:"not null"`
	TitleEN    string  `json:"title_en" gorm:"not null"`
	TitleRU    string  `json:"title_ru" gorm:"not null"`
	AbstractKZ *string `json:"abstract_kz"`
	AbstractEN *string `json:"abstract_en"`
	AbstractRU *string `json:"abstract_ru"`
	DOI        *string `json:"doi"`
	ArticleType ArticleType `json:"article_type" gorm:"not null"`

	ManuscriptFileURL     *string `json:"manuscript_file_url"`
	AntiplagiarismFileURL *string `json:"antiplagiarism_file_url"`
	AuthorInfoFileURL     *string `json:"author_info_file_url"`
	CoverLetterFileURL    *string `json:"cover_letter_file_url"`

	NotPublishedElsewhere bool    `json:"not_published_elsewhere" gorm:"default:false"`
	PlagiarismFree        bool    `json:"plagiarism_free" gorm:"default:false"`
	AuthorsAgree          bool    `json:"authors_agree" gorm:"default:false"`
	GenerativeAIInfo      *string `json:"generative_ai_info"`

	// Snapshot copies of the article's associations as of creation time,
	// not live references to the article's current sets.
	Authors  []Author  `json:"authors" gorm:"many2many:article_version_authors;joinForeignKey:VersionID;joinReferences:AuthorID"`
	Keywords []Keyword `json:"keywords" gorm:"many2many:article_version_keywords;joinForeignKey:VersionID;joinReferences:KeywordID"`

	CreatedAt time.Time `json:"created_at"`
}

// VersionCodeFor renders the human-readable code for a version number,
// e.g. TAU-V1, TAU-V2.
func VersionCodeFor(n int) string {
	return fmt.Sprintf("TAU-V%d", n)
}

// Snapshot builds version n of the given article, duplicating every field
// relevant to peer review plus the author/keyword associations.
func Snapshot(article *Article, n int) *ArticleVersion {
	return &ArticleVersion{
		ArticleID:             article.ID,
		VersionNumber:         n,
		VersionCode:           VersionCodeFor(n),
		TitleKZ:               article.TitleKZ,
		TitleEN:               article.TitleEN,
		TitleRU:               article.TitleRU,
		AbstractKZ:            article.AbstractKZ,
		AbstractEN:            article.AbstractEN,
		AbstractRU:            article.AbstractRU,
		DOI:                   article.DOI,
		ArticleType:           article.ArticleType,
		ManuscriptFileURL:     article.ManuscriptFileURL,
		AntiplagiarismFileURL: article.AntiplagiarismFileURL,
		AuthorInfoFileURL:     article.AuthorInfoFileURL,
		CoverLetterFileURL:    article.CoverLetterFileURL,
		NotPublishedElsewhere: article.NotPublishedElsewhere,
		PlagiarismFree:        article.PlagiarismFree,
		AuthorsAgree:          article.AuthorsAgree,
		GenerativeAIInfo:      article.GenerativeAIInfo,
		Authors:               article.Authors,
		Keywords:              article.Keywords,
	}
}
