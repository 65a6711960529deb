package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tau-journal/clients"
	"tau-journal/identity"
	"tau-journal/models"
	"tau-journal/repositories"
)

type ReviewService interface {
	Assign(ctx context.Context, ident *identity.Identity, req models.ReviewAssignRequest) (*models.Review, bool, error)
	Update(ctx context.Context, ident *identity.Identity, id uint, req models.ReviewUpdateRequest) (*models.Review, error)
	RequestResubmission(ctx context.Context, ident *identity.Identity, id uint, req models.ResubmissionRequest) (*models.Review, error)
	Get(ident *identity.Identity, id uint) (*models.Review, error)
	ListByArticle(articleID uint) ([]models.ReviewSummary, error)
	ListByReviewer(ident *identity.Identity) ([]models.Review, error)
}

type reviewService struct {
	reviews       repositories.ReviewRepository
	articles      *clients.ArticleClient
	notifications *clients.NotificationClient
	logger        *zap.Logger
}

func NewReviewService(
	reviews repositories.ReviewRepository,
	articles *clients.ArticleClient,
	notifications *clients.NotificationClient,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviews:       reviews,
		articles:      articles,
		notifications: notifications,
		logger:        logger,
	}
}

// Assign is an idempotent upsert per (article, reviewer): re-assigning
// returns the existing review untouched. The bool reports whether a new
// review row was created.
func (s *reviewService) Assign(ctx context.Context, ident *identity.Identity, req models.ReviewAssignRequest) (*models.Review, bool, error) {
	existing, err := s.reviews.GetByArticleAndReviewer(req.ArticleID, req.ReviewerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	review := &models.Review{
		ArticleID:  req.ArticleID,
		ReviewerID: req.ReviewerID,
		Status:     models.ReviewPending,
		Deadline:   req.Deadline,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, false, err
	}
	return review, true, nil
}

// Update is the reviewer's single write endpoint: "save" keeps working
// on a draft, "submit" finalizes it. A recommendation may come with
// either action and is validated when present. Completed reviews are
// immutable until an editor requests resubmission.
func (s *reviewService) Update(ctx context.Context, ident *identity.Identity, id uint, req models.ReviewUpdateRequest) (*models.Review, error) {
	review, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != ident.UserID {
		return nil, forbidden("Not your review")
	}
	if review.Status == models.ReviewCompleted {
		return nil, badRequest("Review is already completed")
	}

	if req.Recommendation != nil {
		if !models.ValidRecommendation(*req.Recommendation) {
			return nil, badRequest(fmt.Sprintf("Invalid recommendation: %s", *req.Recommendation))
		}
		review.Recommendation = req.Recommendation
	}
	applyRubric(review, req)

	switch req.Action {
	case models.ReviewActionSave:
		review.Status = models.ReviewInProgress
	case models.ReviewActionSubmit:
		review.Status = models.ReviewCompleted
	default:
		return nil, badRequest(fmt.Sprintf("Unknown action: %s", req.Action))
	}

	if err := s.reviews.Save(review); err != nil {
		return nil, err
	}

	if review.Status == models.ReviewCompleted {
		recommendation := ""
		if review.Recommendation != nil {
			recommendation = string(*review.Recommendation)
		}
		s.articles.NotifyReviewSubmitted(ctx, ident, review.ArticleID, review.ReviewerID, recommendation)
	}
	return review, nil
}

// RequestResubmission reopens a review from any status, including
// completed ones, and tells the reviewer to revisit it.
func (s *reviewService) RequestResubmission(ctx context.Context, ident *identity.Identity, id uint, req models.ResubmissionRequest) (*models.Review, error) {
	review, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	review.Status = models.ReviewResubmission
	if req.Deadline != nil {
		review.Deadline = req.Deadline
	}
	if err := s.reviews.Save(review); err != nil {
		return nil, err
	}

	s.notifications.Send(ctx, ident, models.Notification{
		UserID:        review.ReviewerID,
		Type:          models.NotifyReviewAssignment,
		Title:         "Resubmission requested",
		Message:       fmt.Sprintf("Your review of article %d needs to be resubmitted", review.ArticleID),
		RelatedEntity: fmt.Sprintf("review:%d", review.ID),
	})
	return review, nil
}

func (s *reviewService) Get(ident *identity.Identity, id uint) (*models.Review, error) {
	review, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != ident.UserID && !ident.HasRole(identity.RoleEditor) {
		return nil, forbidden("Not allowed to read this review")
	}
	return review, nil
}

// ListByArticle is the public projection: status and has_content only,
// never the review text.
func (s *reviewService) ListByArticle(articleID uint) ([]models.ReviewSummary, error) {
	reviews, err := s.reviews.ListByArticle(articleID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ReviewSummary, 0, len(reviews))
	for i := range reviews {
		summaries = append(summaries, reviews[i].Summary())
	}
	return summaries, nil
}

func (s *reviewService) ListByReviewer(ident *identity.Identity) ([]models.Review, error) {
	return s.reviews.ListByReviewer(ident.UserID)
}

func (s *reviewService) getOr404(id uint) (*models.Review, error) {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Review not found")
		}
		return nil, err
	}
	return review, nil
}

func applyRubric(review *models.Review, req models.ReviewUpdateRequest) {
	if req.Comments != nil {
		review.Comments = req.Comments
	}
	if req.ImportanceApplicability != nil {
		review.ImportanceApplicability = req.ImportanceApplicability
	}
	if req.NoveltyApplication != nil {
		review.NoveltyApplication = req.NoveltyApplication
	}
	if req.Originality != nil {
		review.Originality = req.Originality
	}
	if req.InnovationProduct != nil {
		review.InnovationProduct = req.InnovationProduct
	}
	if req.ResultsSignificance != nil {
		review.ResultsSignificance = req.ResultsSignificance
	}
	if req.Coherence != nil {
		review.Coherence = req.Coherence
	}
	if req.StyleQuality != nil {
		review.StyleQuality = req.StyleQuality
	}
	if req.EditorialCompliance != nil {
		review.EditorialCompliance = req.EditorialCompliance
	}
}
