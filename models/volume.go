package models

import "time"

// Volume is an editor-curated publication issue keyed uniquely by
// (year, number). Only published articles may be associated; the check
// happens at association time and is not re-validated later.
type Volume struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Year        int       `json:"year" gorm:"not null;index:idx_volume_year_number,unique"`
	Number      int       `json:"number" gorm:"not null;index:idx_volume_year_number,unique"`
	Month       *int      `json:"month"`
	TitleKZ     *string   `json:"title_kz"`
	TitleEN     *string   `json:"title_en"`
	TitleRU     *string   `json:"title_ru"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Articles    []Article `json:"articles" gorm:"many2many:volume_articles;"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
