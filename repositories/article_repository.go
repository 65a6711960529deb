package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tau-journal/models"
)

type ArticleRepository interface {
	CreateWithVersion(article *models.Article) error
	SaveWithNewVersion(article *models.Article) (*models.ArticleVersion, error)
	Save(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetDetail(id uint) (*models.Article, error)
	GetByIDs(ids []uint) ([]models.Article, error)
	ListByResponsibleUser(userID uint) ([]models.Article, error)
	ListUnassigned(params models.UnassignedListParams) ([]models.Article, int64, error)
	ReviewerIDs(articleID uint) ([]uint, error)
	AddReviewer(articleID, userID uint) (bool, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// CreateWithVersion persists a new article together with its first snapshot
// version in one transaction; a crash mid-way loses the whole unit.
func (r *articleRepository) CreateWithVersion(article *models.Article) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		version := models.Snapshot(article, 1)
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		article.CurrentVersionID = &version.ID
		article.Versions = []models.ArticleVersion{*version}
		return tx.Model(&models.Article{}).Where("id = ?", article.ID).
			Update("current_version_id", version.ID).Error
	})
}

// SaveWithNewVersion saves the mutated article, replaces its association
// sets, and appends snapshot version max+1, re-pointing current_version_id.
// The max read has no concurrency guard; two simultaneous updates can race
// to the same version number.
func (r *articleRepository) SaveWithNewVersion(article *models.Article) (*models.ArticleVersion, error) {
	var version *models.ArticleVersion
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authors", "Keywords", "Versions").Save(article).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Authors").Replace(article.Authors); err != nil {
			return err
		}
		if err := tx.Model(article).Association("Keywords").Replace(article.Keywords); err != nil {
			return err
		}

		var maxNumber int
		row := tx.Model(&models.ArticleVersion{}).
			Where("article_id = ?", article.ID).
			Select("COALESCE(MAX(version_number), 0)").
			Row()
		if err := row.Scan(&maxNumber); err != nil {
			return err
		}

		version = models.Snapshot(article, maxNumber+1)
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		article.CurrentVersionID = &version.ID
		return tx.Model(&models.Article{}).Where("id = ?", article.ID).
			Update("current_version_id", version.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (r *articleRepository) Save(article *models.Article) error {
	return r.db.Omit("Authors", "Keywords", "Versions").Save(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Authors").Preload("Keywords").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetDetail(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.
		Preload("Authors").
		Preload("Keywords").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("article_versions.version_number")
		}).
		Preload("Versions.Authors").
		Preload("Versions.Keywords").
		First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetByIDs(ids []uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Where("id IN ?", ids).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByResponsibleUser(userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Authors").Preload("Keywords").
		Where("responsible_user_id = ?", userID).
		Order("created_at desc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListUnassigned(params models.UnassignedListParams) ([]models.Article, int64, error) {
	query := r.db.Model(&models.Article{}).Preload("Authors").Preload("Keywords")

	status := models.StatusSubmitted
	if params.Status != "" {
		status = models.ArticleStatus(params.Status)
	}
	query = query.Where("articles.status = ?", status)

	if params.AuthorName != "" {
		pattern := "%" + params.AuthorName + "%"
		query = query.
			Joins("JOIN article_authors ON article_authors.article_id = articles.id").
			Joins("JOIN authors ON authors.id = article_authors.author_id").
			Where("authors.first_name ILIKE ? OR authors.last_name ILIKE ? OR authors.patronymic ILIKE ?",
				pattern, pattern, pattern)
	}

	if params.Year > 0 {
		query = query.Where("EXTRACT(YEAR FROM articles.created_at) = ?", params.Year)
	}

	if params.ArticleType != "" {
		query = query.Where("articles.article_type = ?", params.ArticleType)
	}

	if params.Keywords != "" {
		terms := splitCSV(params.Keywords)
		if len(terms) > 0 {
			var conds []string
			var args []interface{}
			for _, term := range terms {
				pattern := "%" + term + "%"
				conds = append(conds, "(keywords.title_kz ILIKE ? OR keywords.title_en ILIKE ? OR keywords.title_ru ILIKE ?)")
				args = append(args, pattern, pattern, pattern)
			}
			query = query.
				Joins("JOIN article_keywords ON article_keywords.article_id = articles.id").
				Joins("JOIN keywords ON keywords.id = article_keywords.keyword_id").
				Where(strings.Join(conds, " OR "), args...)
		}
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		fields := []string{"title_kz", "title_en", "title_ru", "abstract_kz", "abstract_en", "abstract_ru"}
		conds := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			conds[i] = fmt.Sprintf("articles.%s ILIKE ?", f)
			args[i] = pattern
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	// Count on its own session: Distinct("articles.id") would otherwise
	// stick to the shared statement and strip every column but the id
	// from the listing select.
	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("articles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []models.Article
	offset := (params.Page - 1) * params.PageSize
	err := query.Session(&gorm.Session{}).Distinct().
		Order("articles.created_at desc").
		Offset(offset).Limit(params.PageSize).
		Find(&articles).Error
	return articles, total, err
}

func (r *articleRepository) ReviewerIDs(articleID uint) ([]uint, error) {
	var links []models.ArticleReviewer
	if err := r.db.Where("article_id = ?", articleID).Find(&links).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.UserID)
	}
	return ids, nil
}

// AddReviewer links a reviewer to an article, reporting whether a new link
// was created.
func (r *articleRepository) AddReviewer(articleID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ArticleReviewer{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	err = r.db.Create(&models.ArticleReviewer{ArticleID: articleID, UserID: userID}).Error
	return err == nil, err
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
