package repositories

import (
	"gorm.io/gorm"

	"tau-journal/models"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	Save(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	GetByArticleAndReviewer(articleID, reviewerID uint) (*models.Review, error)
	ListByArticle(articleID uint) ([]models.Review, error)
	ListByReviewer(reviewerID uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) Save(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByArticleAndReviewer(articleID, reviewerID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("article_id = ? AND reviewer_id = ?", articleID, reviewerID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByArticle(articleID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("article_id = ?", articleID).Order("id").Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByReviewer(reviewerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("reviewer_id = ?", reviewerID).Order("id").Find(&reviews).Error
	return reviews, err
}
