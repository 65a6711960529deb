package repositories

import (
	"gorm.io/gorm"

	"tau-journal/models"
)

type AuthorRepository interface {
	Create(author *models.Author) error
	GetByID(id uint) (*models.Author, error)
	GetByIDs(ids []uint) ([]models.Author, error)
	GetByEmail(email string) (*models.Author, error)
	List() ([]models.Author, error)
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(author *models.Author) error {
	return r.db.Create(author).Error
}

func (r *authorRepository) GetByID(id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) GetByIDs(ids []uint) ([]models.Author, error) {
	var authors []models.Author
	err := r.db.Where("id IN ?", ids).Find(&authors).Error
	return authors, err
}

func (r *authorRepository) GetByEmail(email string) (*models.Author, error) {
	var author models.Author
	err := r.db.Where("email = ?", email).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List() ([]models.Author, error) {
	var authors []models.Author
	err := r.db.Order("last_name, first_name").Find(&authors).Error
	return authors, err
}
