package repositories

import (
	"gorm.io/gorm"

	"tau-journal/models"
)

type VolumeRepository interface {
	Create(volume *models.Volume) error
	GetByID(id uint) (*models.Volume, error)
	List(params models.VolumeListParams) ([]models.Volume, error)
	Save(volume *models.Volume) error
	ReplaceArticles(volume *models.Volume, articles []models.Article) error
	Delete(id uint) error
	ExistsYearNumber(year, number int, excludeID uint) (bool, error)
}

type volumeRepository struct {
	db *gorm.DB
}

func NewVolumeRepository(db *gorm.DB) VolumeRepository {
	return &volumeRepository{db: db}
}

func (r *volumeRepository) Create(volume *models.Volume) error {
	return r.db.Create(volume).Error
}

func (r *volumeRepository) GetByID(id uint) (*models.Volume, error) {
	var volume models.Volume
	err := r.db.
		Preload("Articles").
		Preload("Articles.Authors").
		Preload("Articles.Keywords").
		First(&volume, id).Error
	if err != nil {
		return nil, err
	}
	return &volume, nil
}

func (r *volumeRepository) List(params models.VolumeListParams) ([]models.Volume, error) {
	query := r.db.Model(&models.Volume{})
	if params.Year != nil {
		query = query.Where("year = ?", *params.Year)
	}
	if params.Number != nil {
		query = query.Where("number = ?", *params.Number)
	}
	if params.Month != nil {
		query = query.Where("month = ?", *params.Month)
	}
	if params.ActiveOnly != nil && *params.ActiveOnly {
		query = query.Where("is_active = true")
	}

	var volumes []models.Volume
	err := query.Preload("Articles").
		Order("year desc, number desc").
		Find(&volumes).Error
	return volumes, err
}

func (r *volumeRepository) Save(volume *models.Volume) error {
	return r.db.Omit("Articles").Save(volume).Error
}

func (r *volumeRepository) ReplaceArticles(volume *models.Volume, articles []models.Article) error {
	return r.db.Model(volume).Association("Articles").Replace(articles)
}

// Delete unlinks the volume's articles before removing the volume row,
// so the articles themselves survive the deletion.
func (r *volumeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		volume := models.Volume{ID: id}
		if err := tx.Model(&volume).Association("Articles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Volume{}, id).Error
	})
}

// ExistsYearNumber reports whether another volume already occupies the
// (year, number) pair. excludeID skips the volume being updated.
func (r *volumeRepository) ExistsYearNumber(year, number int, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Volume{}).Where("year = ? AND number = ?", year, number)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
