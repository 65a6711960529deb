package repositories

import (
	"gorm.io/gorm"

	"tau-journal/models"
)

type KeywordRepository interface {
	Create(keyword *models.Keyword) error
	GetByID(id uint) (*models.Keyword, error)
	GetByIDs(ids []uint) ([]models.Keyword, error)
	List() ([]models.Keyword, error)
}

type keywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) KeywordRepository {
	return &keywordRepository{db: db}
}

func (r *keywordRepository) Create(keyword *models.Keyword) error {
	return r.db.Create(keyword).Error
}

func (r *keywordRepository) GetByID(id uint) (*models.Keyword, error) {
	var keyword models.Keyword
	if err := r.db.First(&keyword, id).Error; err != nil {
		return nil, err
	}
	return &keyword, nil
}

func (r *keywordRepository) GetByIDs(ids []uint) ([]models.Keyword, error) {
	var keywords []models.Keyword
	err := r.db.Where("id IN ?", ids).Find(&keywords).Error
	return keywords, err
}

func (r *keywordRepository) List() ([]models.Keyword, error) {
	var keywords []models.Keyword
	err := r.db.Order("id").Find(&keywords).Error
	return keywords, err
}
