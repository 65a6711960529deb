package services

import (
	"errors"

	"gorm.io/gorm"

	"tau-journal/models"
	"tau-journal/repositories"
)

type AuthorService interface {
	Create(req models.AuthorCreateRequest) (*models.Author, error)
	Get(id uint) (*models.Author, error)
	List() ([]models.Author, error)
}

type authorService struct {
	authors repositories.AuthorRepository
}

func NewAuthorService(authors repositories.AuthorRepository) AuthorService {
	return &authorService{authors: authors}
}

func (s *authorService) Create(req models.AuthorCreateRequest) (*models.Author, error) {
	_, err := s.authors.GetByEmail(req.Email)
	if err == nil {
		return nil, badRequest("Author with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	author := &models.Author{
		Email:           req.Email,
		Prefix:          req.Prefix,
		FirstName:       req.FirstName,
		Patronymic:      req.Patronymic,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		Country:         req.Country,
		Affiliation1:    req.Affiliation1,
		Affiliation2:    req.Affiliation2,
		Affiliation3:    req.Affiliation3,
		IsCorresponding: req.IsCorresponding,
		ORCID:           req.ORCID,
		ScopusAuthorID:  req.ScopusAuthorID,
		ResearcherID:    req.ResearcherID,
	}
	if err := s.authors.Create(author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *authorService) Get(id uint) (*models.Author, error) {
	author, err := s.authors.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Author not found")
		}
		return nil, err
	}
	return author, nil
}

func (s *authorService) List() ([]models.Author, error) {
	authors, err := s.authors.List()
	if err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []models.Author{}
	}
	return authors, nil
}
