package services

import (
	"errors"

	"gorm.io/gorm"

	"tau-journal/models"
	"tau-journal/repositories"
)

type KeywordService interface {
	Create(req models.KeywordCreateRequest) (*models.Keyword, error)
	Get(id uint) (*models.Keyword, error)
	List() ([]models.Keyword, error)
}

type keywordService struct {
	keywords repositories.KeywordRepository
}

func NewKeywordService(keywords repositories.KeywordRepository) KeywordService {
	return &keywordService{keywords: keywords}
}

func (s *keywordService) Create(req models.KeywordCreateRequest) (*models.Keyword, error) {
	keyword := &models.Keyword{
		TitleKZ: req.TitleKZ,
		TitleEN: req.TitleEN,
		TitleRU: req.TitleRU,
	}
	if err := s.keywords.Create(keyword); err != nil {
		return nil, err
	}
	return keyword, nil
}

func (s *keywordService) Get(id uint) (*models.Keyword, error) {
	keyword, err := s.keywords.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Keyword not found")
		}
		return nil, err
	}
	return keyword, nil
}

func (s *keywordService) List() ([]models.Keyword, error) {
	keywords, err := s.keywords.List()
	if err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []models.Keyword{}
	}
	return keywords, nil
}
