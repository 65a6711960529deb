package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tau-journal/models"
	"tau-journal/repositories"
)

type VolumeService interface {
	Create(req models.VolumeCreateRequest) (*models.Volume, error)
	Update(id uint, req models.VolumeUpdateRequest) (*models.Volume, error)
	Get(id uint) (*models.Volume, error)
	List(params models.VolumeListParams) ([]models.Volume, error)
	Delete(id uint) error
}

type volumeService struct {
	volumes  repositories.VolumeRepository
	articles repositories.ArticleRepository
}

func NewVolumeService(volumes repositories.VolumeRepository, articles repositories.ArticleRepository) VolumeService {
	return &volumeService{volumes: volumes, articles: articles}
}

func (s *volumeService) Create(req models.VolumeCreateRequest) (*models.Volume, error) {
	taken, err := s.volumes.ExistsYearNumber(req.Year, req.Number, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, badRequest(fmt.Sprintf("Volume %d/%d already exists", req.Year, req.Number))
	}

	members, err := s.resolvePublished(req.ArticleIDs)
	if err != nil {
		return nil, err
	}

	volume := &models.Volume{
		Year:        req.Year,
		Number:      req.Number,
		Month:       req.Month,
		TitleKZ:     req.TitleKZ,
		TitleEN:     req.TitleEN,
		TitleRU:     req.TitleRU,
		Description: req.Description,
		IsActive:    true,
		Articles:    members,
	}
	if req.IsActive != nil {
		volume.IsActive = *req.IsActive
	}
	if err := s.volumes.Create(volume); err != nil {
		return nil, err
	}
	return volume, nil
}

func (s *volumeService) Update(id uint, req models.VolumeUpdateRequest) (*models.Volume, error) {
	volume, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	year := volume.Year
	number := volume.Number
	if req.Year != nil {
		year = *req.Year
	}
	if req.Number != nil {
		number = *req.Number
	}
	if year != volume.Year || number != volume.Number {
		taken, err := s.volumes.ExistsYearNumber(year, number, volume.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, badRequest(fmt.Sprintf("Volume %d/%d already exists", year, number))
		}
	}
	volume.Year = year
	volume.Number = number

	if req.Month != nil {
		volume.Month = req.Month
	}
	if req.TitleKZ != nil {
		volume.TitleKZ = req.TitleKZ
	}
	if req.TitleEN != nil {
		volume.TitleEN = req.TitleEN
	}
	if req.TitleRU != nil {
		volume.TitleRU = req.TitleRU
	}
	if req.Description != nil {
		volume.Description = req.Description
	}
	if req.IsActive != nil {
		volume.IsActive = *req.IsActive
	}

	if err := s.volumes.Save(volume); err != nil {
		return nil, err
	}

	if req.ArticleIDs != nil {
		members, err := s.resolvePublished(req.ArticleIDs)
		if err != nil {
			return nil, err
		}
		if err := s.volumes.ReplaceArticles(volume, members); err != nil {
			return nil, err
		}
		volume.Articles = members
	}
	return volume, nil
}

func (s *volumeService) Get(id uint) (*models.Volume, error) {
	return s.getOr404(id)
}

func (s *volumeService) List(params models.VolumeListParams) ([]models.Volume, error) {
	volumes, err := s.volumes.List(params)
	if err != nil {
		return nil, err
	}
	if volumes == nil {
		volumes = []models.Volume{}
	}
	return volumes, nil
}

func (s *volumeService) Delete(id uint) error {
	if _, err := s.getOr404(id); err != nil {
		return err
	}
	return s.volumes.Delete(id)
}

// resolvePublished loads the member articles and rejects any that are
// not published. Membership is checked here only; a later status change
// does not evict the article from the volume.
func (s *volumeService) resolvePublished(ids []uint) ([]models.Article, error) {
	if len(ids) == 0 {
		return []models.Article{}, nil
	}
	articles, err := s.articles.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(articles) != len(uniqueIDs(ids)) {
		return nil, badRequest("One or more articles not found")
	}
	var offending []string
	for i := range articles {
		if articles[i].Status != models.StatusPublished {
			offending = append(offending, fmt.Sprintf("%d", articles[i].ID))
		}
	}
	if len(offending) > 0 {
		return nil, badRequest(fmt.Sprintf("Articles not published: %s", strings.Join(offending, ", ")))
	}
	return articles, nil
}

func (s *volumeService) getOr404(id uint) (*models.Volume, error) {
	volume, err := s.volumes.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Volume not found")
		}
		return nil, err
	}
	return volume, nil
}
