package repositories

import (
	"gorm.io/gorm"

	"tau-journal/models"
)

type EditorialTaskRepository interface {
	Create(task *models.EditorialTask) error
	Save(task *models.EditorialTask) error
	GetByID(id uint) (*models.EditorialTask, error)
	ListByArticle(articleID uint) ([]models.EditorialTask, error)
	List(page, pageSize int) ([]models.EditorialTask, int64, error)
}

type editorialTaskRepository struct {
	db *gorm.DB
}

func NewEditorialTaskRepository(db *gorm.DB) EditorialTaskRepository {
	return &editorialTaskRepository{db: db}
}

func (r *editorialTaskRepository) Create(task *models.EditorialTask) error {
	return r.db.Create(task).Error
}

func (r *editorialTaskRepository) Save(task *models.EditorialTask) error {
	return r.db.Save(task).Error
}

func (r *editorialTaskRepository) GetByID(id uint) (*models.EditorialTask, error) {
	var task models.EditorialTask
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *editorialTaskRepository) ListByArticle(articleID uint) ([]models.EditorialTask, error) {
	var tasks []models.EditorialTask
	err := r.db.Where("article_id = ?", articleID).Order("created_at asc").Find(&tasks).Error
	return tasks, err
}

func (r *editorialTaskRepository) List(page, pageSize int) ([]models.EditorialTask, int64, error) {
	var total int64
	if err := r.db.Model(&models.EditorialTask{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.EditorialTask
	err := r.db.Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tasks).Error
	return tasks, total, err
}
