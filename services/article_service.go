package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tau-journal/clients"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/models"
	"tau-journal/repositories"
)

type ArticleService interface {
	Create(ctx context.Context, ident *identity.Identity, req models.ArticleCreateRequest) (*models.Article, error)
	Update(ctx context.Context, ident *identity.Identity, id uint, req models.ArticleUpdateRequest) (*models.Article, error)
	CreateVersion(ident *identity.Identity, id uint) (*models.ArticleVersion, error)
	GetOwned(ident *identity.Identity, id uint) (*models.Article, error)
	ManuscriptMetadata(ctx context.Context, ident *identity.Identity, id uint) (map[string]interface{}, error)
	ManuscriptDownload(ctx context.Context, ident *identity.Identity, id uint) (*http.Response, error)
	GetDetail(id uint) (*models.Article, error)
	ListMy(ident *identity.Identity) ([]models.Article, error)
	ListUnassigned(params models.UnassignedListParams) (*models.PagedArticles, error)
	ChangeStatus(ctx context.Context, ident *identity.Identity, id uint, status models.ArticleStatus) (*models.Article, error)
	Withdraw(ctx context.Context, ident *identity.Identity, id uint) (*models.Article, error)
	AssignEditor(ctx context.Context, ident *identity.Identity, id, editorID uint) (*models.Article, error)
	AssignReviewers(ctx context.Context, ident *identity.Identity, id uint, req models.AssignReviewersRequest) (*models.Article, error)
	Reviewers(ctx context.Context, ident *identity.Identity, id uint) ([]models.ArticleReviewerInfo, error)
	ReviewSubmitted(ctx context.Context, ident *identity.Identity, id, reviewerID uint, recommendation string) error
}

type articleService struct {
	articles      repositories.ArticleRepository
	authors       repositories.AuthorRepository
	keywords      repositories.KeywordRepository
	reviews       *clients.ReviewClient
	profiles      *clients.ProfileClient
	files         *clients.FileClient
	notifications *clients.NotificationClient
	logger        *zap.Logger
}

func NewArticleService(
	articles repositories.ArticleRepository,
	authors repositories.AuthorRepository,
	keywords repositories.KeywordRepository,
	reviews *clients.ReviewClient,
	profiles *clients.ProfileClient,
	files *clients.FileClient,
	notifications *clients.NotificationClient,
	logger *zap.Logger,
) ArticleService {
	return &articleService{
		articles:      articles,
		authors:       authors,
		keywords:      keywords,
		reviews:       reviews,
		profiles:      profiles,
		files:         files,
		notifications: notifications,
		logger:        logger,
	}
}

// Create stores a new submission. The article enters the workflow as
// "submitted" and immediately gets snapshot version 1.
func (s *articleService) Create(ctx context.Context, ident *identity.Identity, req models.ArticleCreateRequest) (*models.Article, error) {
	if !ident.HasRole(identity.RoleAuthor) {
		return nil, forbidden("Only authors can submit articles")
	}

	articleType := req.ArticleType
	if articleType == "" {
		articleType = models.TypeOriginal
	}
	if !models.ValidArticleType(articleType) {
		return nil, badRequest(fmt.Sprintf("Invalid article type: %s", articleType))
	}

	authors, err := s.resolveAuthors(req.AuthorIDs)
	if err != nil {
		return nil, err
	}
	keywords, err := s.resolveKeywords(req.KeywordIDs)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		TitleKZ:               req.TitleKZ,
		TitleEN:               req.TitleEN,
		TitleRU:               req.TitleRU,
		AbstractKZ:            req.AbstractKZ,
		AbstractEN:            req.AbstractEN,
		AbstractRU:            req.AbstractRU,
		DOI:                   req.DOI,
		Status:                models.StatusSubmitted,
		ArticleType:           articleType,
		ResponsibleUserID:     ident.UserID,
		ManuscriptFileURL:     models.FileURL(req.ManuscriptFileID),
		AntiplagiarismFileURL: models.FileURL(req.AntiplagiarismFileID),
		AuthorInfoFileURL:     models.FileURL(req.AuthorInfoFileID),
		CoverLetterFileURL:    models.FileURL(req.CoverLetterFileID),
		NotPublishedElsewhere: req.NotPublishedElsewhere,
		PlagiarismFree:        req.PlagiarismFree,
		AuthorsAgree:          req.AuthorsAgree,
		GenerativeAIInfo:      req.GenerativeAIInfo,
		Authors:               authors,
		Keywords:              keywords,
	}

	if err := s.articles.CreateWithVersion(article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update patches the author's own article and appends a new snapshot
// version. Any edit drops the article back to "submitted" so editors
// re-triage it; published articles keep their status.
func (s *articleService) Update(ctx context.Context, ident *identity.Identity, id uint, req models.ArticleUpdateRequest) (*models.Article, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if article.ResponsibleUserID != ident.UserID {
		return nil, forbidden("Not allowed to modify this article")
	}

	if req.TitleKZ != nil {
		article.TitleKZ = *req.TitleKZ
	}
	if req.TitleEN != nil {
		article.TitleEN = *req.TitleEN
	}
	if req.TitleRU != nil {
		article.TitleRU = *req.TitleRU
	}
	if req.AbstractKZ != nil {
		article.AbstractKZ = req.AbstractKZ
	}
	if req.AbstractEN != nil {
		article.AbstractEN = req.AbstractEN
	}
	if req.AbstractRU != nil {
		article.AbstractRU = req.AbstractRU
	}
	if req.DOI != nil {
		article.DOI = req.DOI
	}
	if req.ArticleType != nil {
		if !models.ValidArticleType(*req.ArticleType) {
			return nil, badRequest(fmt.Sprintf("Invalid article type: %s", *req.ArticleType))
		}
		article.ArticleType = *req.ArticleType
	}
	if req.ManuscriptFileID != nil {
		article.ManuscriptFileURL = models.FileURL(req.ManuscriptFileID)
	}
	if req.AntiplagiarismFileID != nil {
		article.AntiplagiarismFileURL = models.FileURL(req.AntiplagiarismFileID)
	}
	if req.AuthorInfoFileID != nil {
		article.AuthorInfoFileURL = models.FileURL(req.AuthorInfoFileID)
	}
	if req.CoverLetterFileID != nil {
		article.CoverLetterFileURL = models.FileURL(req.CoverLetterFileID)
	}
	if req.NotPublishedElsewhere != nil {
		article.NotPublishedElsewhere = *req.NotPublishedElsewhere
	}
	if req.PlagiarismFree != nil {
		article.PlagiarismFree = *req.PlagiarismFree
	}
	if req.AuthorsAgree != nil {
		article.AuthorsAgree = *req.AuthorsAgree
	}
	if req.GenerativeAIInfo != nil {
		article.GenerativeAIInfo = req.GenerativeAIInfo
	}
	if req.AuthorIDs != nil {
		authors, err := s.resolveAuthors(req.AuthorIDs)
		if err != nil {
			return nil, err
		}
		article.Authors = authors
	}
	if req.KeywordIDs != nil {
		keywords, err := s.resolveKeywords(req.KeywordIDs)
		if err != nil {
			return nil, err
		}
		article.Keywords = keywords
	}

	if article.Status != models.StatusPublished {
		article.Status = models.StatusSubmitted
	}

	if _, err := s.articles.SaveWithNewVersion(article); err != nil {
		return nil, err
	}
	return article, nil
}

// CreateVersion snapshots the current field values as a new immutable
// version without changing them. Only the responsible user may do this.
func (s *articleService) CreateVersion(ident *identity.Identity, id uint) (*models.ArticleVersion, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if article.ResponsibleUserID != ident.UserID {
		return nil, forbidden("Only the responsible user can snapshot this article")
	}
	return s.articles.SaveWithNewVersion(article)
}

func (s *articleService) GetOwned(ident *identity.Identity, id uint) (*models.Article, error) {
	article, err := s.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if article.ResponsibleUserID != ident.UserID {
		return nil, forbidden("You do not own this article")
	}
	return article, nil
}

// ManuscriptMetadata fetches the file service's record for the owner's
// manuscript blob. File service failures surface: 404 stays 404, a
// deadline is 504, anything else 502.
func (s *articleService) ManuscriptMetadata(ctx context.Context, ident *identity.Identity, id uint) (map[string]interface{}, error) {
	fileID, err := s.manuscriptFileID(ident, id)
	if err != nil {
		return nil, err
	}
	payload, err := s.files.Metadata(ctx, ident, fileID)
	if err != nil {
		return nil, fileServiceError(err)
	}
	return payload, nil
}

// ManuscriptDownload opens the manuscript byte stream for the owner. The
// caller must close the response body.
func (s *articleService) ManuscriptDownload(ctx context.Context, ident *identity.Identity, id uint) (*http.Response, error) {
	fileID, err := s.manuscriptFileID(ident, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.files.Download(ctx, ident, fileID)
	if err != nil {
		return nil, fileServiceError(err)
	}
	return resp, nil
}

func (s *articleService) manuscriptFileID(ident *identity.Identity, id uint) (string, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return "", err
	}
	if article.ResponsibleUserID != ident.UserID {
		return "", forbidden("You do not own this article")
	}
	fileID, ok := models.FileIDFromURL(article.ManuscriptFileURL)
	if !ok {
		return "", notFound("Article has no manuscript file")
	}
	return fileID, nil
}

func fileServiceError(err error) error {
	switch {
	case clients.IsNotFound(err):
		return notFound("File not found")
	case clients.IsTimeout(err):
		return &StatusError{Code: http.StatusGatewayTimeout, Detail: "File service timed out"}
	default:
		return &StatusError{Code: http.StatusBadGateway, Detail: "File service unavailable"}
	}
}

func (s *articleService) GetDetail(id uint) (*models.Article, error) {
	article, err := s.articles.GetDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Article not found")
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) ListMy(ident *identity.Identity) ([]models.Article, error) {
	return s.articles.ListByResponsibleUser(ident.UserID)
}

func (s *articleService) ListUnassigned(params models.UnassignedListParams) (*models.PagedArticles, error) {
	if params.Page < 1 {
		return nil, badRequest("Page must be at least 1")
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		return nil, badRequest("Page size must be between 1 and 100")
	}
	if params.Status != "" && !models.ValidArticleStatus(models.ArticleStatus(params.Status)) {
		return nil, badRequest(fmt.Sprintf("Invalid status: %s", params.Status))
	}
	if params.ArticleType != "" && !models.ValidArticleType(models.ArticleType(params.ArticleType)) {
		return nil, badRequest(fmt.Sprintf("Invalid article type: %s", params.ArticleType))
	}

	articles, total, err := s.articles.ListUnassigned(params)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return &models.PagedArticles{
		Items:      articles,
		Pagination: helper.NewPagination(total, params.Page, params.PageSize),
	}, nil
}

// ChangeStatus is the editor override: any valid status, no transition
// checks. The responsible user gets a best-effort notification.
func (s *articleService) ChangeStatus(ctx context.Context, ident *identity.Identity, id uint, status models.ArticleStatus) (*models.Article, error) {
	if !models.ValidArticleStatus(status) {
		return nil, badRequest(fmt.Sprintf("Invalid status: %s", status))
	}
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	article.Status = status
	if err := s.articles.Save(article); err != nil {
		return nil, err
	}

	s.notifications.Send(ctx, ident, models.Notification{
		UserID:        article.ResponsibleUserID,
		Type:          models.NotifyArticleStatus,
		Title:         "Article status changed",
		Message:       fmt.Sprintf("Article %d is now %s", article.ID, status),
		RelatedEntity: fmt.Sprintf("article:%d", article.ID),
	})
	return article, nil
}

func (s *articleService) Withdraw(ctx context.Context, ident *identity.Identity, id uint) (*models.Article, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if article.ResponsibleUserID != ident.UserID {
		return nil, forbidden("Not allowed to withdraw this article")
	}
	switch article.Status {
	case models.StatusPublished:
		return nil, badRequest("Published articles cannot be withdrawn")
	case models.StatusWithdrawn:
		return nil, badRequest("Article is already withdrawn")
	}

	article.Status = models.StatusWithdrawn
	if err := s.articles.Save(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) AssignEditor(ctx context.Context, ident *identity.Identity, id, editorID uint) (*models.Article, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	article.AssignedEditorID = &editorID
	if article.Status == models.StatusSubmitted {
		article.Status = models.StatusEditorCheck
	}
	if err := s.articles.Save(article); err != nil {
		return nil, err
	}

	s.notifications.Send(ctx, ident, models.Notification{
		UserID:        editorID,
		Type:          models.NotifyEditorial,
		Title:         "Article assigned",
		Message:       fmt.Sprintf("Article %d has been assigned to you", article.ID),
		RelatedEntity: fmt.Sprintf("article:%d", article.ID),
	})
	return article, nil
}

// AssignReviewers links reviewers to the article. The review service
// and notification calls are best effort: the links are the source of
// truth, the rest is choreography. The article's status is untouched;
// only the editor's explicit status call moves it.
func (s *articleService) AssignReviewers(ctx context.Context, ident *identity.Identity, id uint, req models.AssignReviewersRequest) (*models.Article, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	for _, reviewerID := range req.ReviewerIDs {
		added, err := s.articles.AddReviewer(article.ID, reviewerID)
		if err != nil {
			return nil, err
		}
		s.reviews.Assign(ctx, ident, article.ID, reviewerID, req.Deadline)
		if added {
			s.notifications.Send(ctx, ident, models.Notification{
				UserID:        reviewerID,
				Type:          models.NotifyReviewAssignment,
				Title:         "Review assignment",
				Message:       fmt.Sprintf("You have been assigned to review article %d", article.ID),
				RelatedEntity: fmt.Sprintf("article:%d", article.ID),
			})
		}
	}

	return article, nil
}

// Reviewers lists the locally recorded reviewer assignments, merged with
// live deadline and status from the review ledger and profile/identity
// records per reviewer. Every enrichment fails soft to null fields.
func (s *articleService) Reviewers(ctx context.Context, ident *identity.Identity, id uint) ([]models.ArticleReviewerInfo, error) {
	article, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if !ident.HasRole(identity.RoleEditor) && article.ResponsibleUserID != ident.UserID {
		return nil, forbidden("You do not have access to this article's reviewers")
	}

	ids, err := s.articles.ReviewerIDs(id)
	if err != nil {
		return nil, err
	}

	summaries := map[uint]models.ReviewSummary{}
	if rows, err := s.reviews.ListByArticle(ctx, ident, id); err == nil {
		for _, row := range rows {
			summaries[row.ReviewerID] = row
		}
	} else {
		s.logger.Warn("review ledger unavailable, serving local reviewer list",
			zap.Uint("article_id", id), zap.Error(err))
	}

	result := make([]models.ArticleReviewerInfo, 0, len(ids))
	for _, reviewerID := range ids {
		info := models.ArticleReviewerInfo{ReviewerID: reviewerID}
		if summary, ok := summaries[reviewerID]; ok {
			reviewID := summary.ID
			status := summary.Status
			info.ReviewID = &reviewID
			info.Status = &status
			info.Deadline = summary.Deadline
		}
		info.Reviewer = s.profiles.FetchReviewer(ctx, ident, reviewerID)
		result = append(result, info)
	}
	return result, nil
}

// ReviewSubmitted is the internal hook the review service calls when a
// reviewer finishes. It only fans out notifications; the editor decides
// the next workflow step by hand.
func (s *articleService) ReviewSubmitted(ctx context.Context, ident *identity.Identity, id, reviewerID uint, recommendation string) error {
	article, err := s.getOr404(id)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Reviewer %d submitted a review for article %d", reviewerID, article.ID)
	if recommendation != "" {
		message = fmt.Sprintf("%s (%s)", message, recommendation)
	}
	if article.AssignedEditorID != nil {
		s.notifications.Send(ctx, ident, models.Notification{
			UserID:        *article.AssignedEditorID,
			Type:          models.NotifyEditorial,
			Title:         "Review submitted",
			Message:       message,
			RelatedEntity: fmt.Sprintf("article:%d", article.ID),
		})
	}
	s.notifications.Send(ctx, ident, models.Notification{
		UserID:        article.ResponsibleUserID,
		Type:          models.NotifyArticleStatus,
		Title:         "Review submitted",
		Message:       fmt.Sprintf("A review for article %d has been submitted", article.ID),
		RelatedEntity: fmt.Sprintf("article:%d", article.ID),
	})
	return nil
}

func (s *articleService) getOr404(id uint) (*models.Article, error) {
	article, err := s.articles.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Article not found")
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) resolveAuthors(ids []uint) ([]models.Author, error) {
	if len(ids) == 0 {
		return []models.Author{}, nil
	}
	authors, err := s.authors.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(authors) != len(uniqueIDs(ids)) {
		return nil, badRequest("One or more authors not found")
	}
	return authors, nil
}

func (s *articleService) resolveKeywords(ids []uint) ([]models.Keyword, error) {
	if len(ids) == 0 {
		return []models.Keyword{}, nil
	}
	keywords, err := s.keywords.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(keywords) != len(uniqueIDs(ids)) {
		return nil, badRequest("One or more keywords not found")
	}
	return keywords, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
