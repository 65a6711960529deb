package services

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"tau-journal/models"
)

// In-memory repository doubles. They reproduce the persistence
// semantics the services rely on: id assignment, snapshot numbering and
// not-found errors.

type memArticleRepo struct {
	articles  map[uint]*models.Article
	reviewers map[uint][]uint
	nextID    uint
	nextVerID uint
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{
		articles:  map[uint]*models.Article{},
		reviewers: map[uint][]uint{},
	}
}

func (m *memArticleRepo) CreateWithVersion(article *models.Article) error {
	m.nextID++
	article.ID = m.nextID
	version := models.Snapshot(article, 1)
	m.nextVerID++
	version.ID = m.nextVerID
	article.CurrentVersionID = &version.ID
	article.Versions = []models.ArticleVersion{*version}
	m.articles[article.ID] = article
	return nil
}

func (m *memArticleRepo) SaveWithNewVersion(article *models.Article) (*models.ArticleVersion, error) {
	stored, ok := m.articles[article.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	maxNumber := 0
	for _, v := range stored.Versions {
		if v.VersionNumber > maxNumber {
			maxNumber = v.VersionNumber
		}
	}
	version := models.Snapshot(article, maxNumber+1)
	m.nextVerID++
	version.ID = m.nextVerID
	article.Versions = append(stored.Versions, *version)
	article.CurrentVersionID = &version.ID
	m.articles[article.ID] = article
	return version, nil
}

func (m *memArticleRepo) Save(article *models.Article) error {
	if _, ok := m.articles[article.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.articles[article.ID] = article
	return nil
}

func (m *memArticleRepo) GetByID(id uint) (*models.Article, error) {
	article, ok := m.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *article
	return &copied, nil
}

func (m *memArticleRepo) GetDetail(id uint) (*models.Article, error) {
	return m.GetByID(id)
}

func (m *memArticleRepo) GetByIDs(ids []uint) ([]models.Article, error) {
	var out []models.Article
	for _, id := range ids {
		if a, ok := m.articles[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memArticleRepo) ListByResponsibleUser(userID uint) ([]models.Article, error) {
	var out []models.Article
	for _, a := range m.articles {
		if a.ResponsibleUserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memArticleRepo) ListUnassigned(params models.UnassignedListParams) ([]models.Article, int64, error) {
	status := models.StatusSubmitted
	if params.Status != "" {
		status = models.ArticleStatus(params.Status)
	}
	var matched []models.Article
	for _, a := range m.articles {
		if a.Status != status {
			continue
		}
		if params.Search != "" && !strings.Contains(a.TitleEN, params.Search) {
			continue
		}
		matched = append(matched, *a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))

	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memArticleRepo) ReviewerIDs(articleID uint) ([]uint, error) {
	return m.reviewers[articleID], nil
}

func (m *memArticleRepo) AddReviewer(articleID, userID uint) (bool, error) {
	for _, existing := range m.reviewers[articleID] {
		if existing == userID {
			return false, nil
		}
	}
	m.reviewers[articleID] = append(m.reviewers[articleID], userID)
	return true, nil
}

type memAuthorRepo struct {
	authors map[uint]*models.Author
	nextID  uint
}

func newMemAuthorRepo() *memAuthorRepo {
	return &memAuthorRepo{authors: map[uint]*models.Author{}}
}

func (m *memAuthorRepo) Create(author *models.Author) error {
	m.nextID++
	author.ID = m.nextID
	m.authors[author.ID] = author
	return nil
}

func (m *memAuthorRepo) GetByID(id uint) (*models.Author, error) {
	author, ok := m.authors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return author, nil
}

func (m *memAuthorRepo) GetByIDs(ids []uint) ([]models.Author, error) {
	var out []models.Author
	for _, id := range ids {
		if a, ok := m.authors[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAuthorRepo) GetByEmail(email string) (*models.Author, error) {
	for _, a := range m.authors {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAuthorRepo) List() ([]models.Author, error) {
	var out []models.Author
	for _, a := range m.authors {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memKeywordRepo struct {
	keywords map[uint]*models.Keyword
	nextID   uint
}

func newMemKeywordRepo() *memKeywordRepo {
	return &memKeywordRepo{keywords: map[uint]*models.Keyword{}}
}

func (m *memKeywordRepo) Create(keyword *models.Keyword) error {
	m.nextID++
	keyword.ID = m.nextID
	m.keywords[keyword.ID] = keyword
	return nil
}

func (m *memKeywordRepo) GetByID(id uint) (*models.Keyword, error) {
	keyword, ok := m.keywords[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return keyword, nil
}

func (m *memKeywordRepo) GetByIDs(ids []uint) ([]models.Keyword, error) {
	var out []models.Keyword
	for _, id := range ids {
		if k, ok := m.keywords[id]; ok {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *memKeywordRepo) List() ([]models.Keyword, error) {
	var out []models.Keyword
	for _, k := range m.keywords {
		out = append(out, *k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memReviewRepo struct {
	reviews map[uint]*models.Review
	nextID  uint
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: map[uint]*models.Review{}}
}

func (m *memReviewRepo) Create(review *models.Review) error {
	m.nextID++
	review.ID = m.nextID
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *memReviewRepo) Save(review *models.Review) error {
	if _, ok := m.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *memReviewRepo) GetByID(id uint) (*models.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *review
	return &copied, nil
}

func (m *memReviewRepo) GetByArticleAndReviewer(articleID, reviewerID uint) (*models.Review, error) {
	for _, r := range m.reviews {
		if r.ArticleID == articleID && r.ReviewerID == reviewerID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memReviewRepo) ListByArticle(articleID uint) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.ArticleID == articleID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memReviewRepo) ListByReviewer(reviewerID uint) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.ReviewerID == reviewerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memVolumeRepo struct {
	volumes map[uint]*models.Volume
	nextID  uint
}

func newMemVolumeRepo() *memVolumeRepo {
	return &memVolumeRepo{volumes: map[uint]*models.Volume{}}
}

func (m *memVolumeRepo) Create(volume *models.Volume) error {
	m.nextID++
	volume.ID = m.nextID
	m.volumes[volume.ID] = volume
	return nil
}

func (m *memVolumeRepo) GetByID(id uint) (*models.Volume, error) {
	volume, ok := m.volumes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *volume
	return &copied, nil
}

func (m *memVolumeRepo) List(params models.VolumeListParams) ([]models.Volume, error) {
	var out []models.Volume
	for _, v := range m.volumes {
		if params.Year != nil && v.Year != *params.Year {
			continue
		}
		if params.Number != nil && v.Number != *params.Number {
			continue
		}
		if params.ActiveOnly != nil && *params.ActiveOnly && !v.IsActive {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memVolumeRepo) Save(volume *models.Volume) error {
	if _, ok := m.volumes[volume.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.volumes[volume.ID] = volume
	return nil
}

func (m *memVolumeRepo) ReplaceArticles(volume *models.Volume, articles []models.Article) error {
	stored, ok := m.volumes[volume.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Articles = articles
	return nil
}

func (m *memVolumeRepo) Delete(id uint) error {
	delete(m.volumes, id)
	return nil
}

func (m *memVolumeRepo) ExistsYearNumber(year, number int, excludeID uint) (bool, error) {
	for _, v := range m.volumes {
		if v.ID == excludeID {
			continue
		}
		if v.Year == year && v.Number == number {
			return true, nil
		}
	}
	return false, nil
}

type memEditorialTaskRepo struct {
	tasks  map[uint]*models.EditorialTask
	nextID uint
}

func newMemEditorialTaskRepo() *memEditorialTaskRepo {
	return &memEditorialTaskRepo{tasks: map[uint]*models.EditorialTask{}}
}

func (m *memEditorialTaskRepo) Create(task *models.EditorialTask) error {
	m.nextID++
	task.ID = m.nextID
	m.tasks[task.ID] = task
	return nil
}

func (m *memEditorialTaskRepo) Save(task *models.EditorialTask) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *memEditorialTaskRepo) GetByID(id uint) (*models.EditorialTask, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *memEditorialTaskRepo) ListByArticle(articleID uint) ([]models.EditorialTask, error) {
	var tasks []models.EditorialTask
	for _, task := range m.tasks {
		if task.ArticleID == articleID {
			tasks = append(tasks, *task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *memEditorialTaskRepo) List(page, pageSize int) ([]models.EditorialTask, int64, error) {
	var all []models.EditorialTask
	for _, task := range m.tasks {
		all = append(all, *task)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))

	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
