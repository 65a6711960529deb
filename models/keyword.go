package models

type Keyword struct {
	ID      uint   `json:"id" gorm:"primarykey"`
	TitleKZ string `json:"title_kz" gorm:"not null"`
	TitleEN string `json:"title_en" gorm:"not null"`
	TitleRU string `json:"title_ru" gorm:"not null"`
}
