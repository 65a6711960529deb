package models

// Author is a bibliographic author, distinct from the platform user that
// submitted the article. Email-unique, independent lifecycle.
type Author struct {
	ID              uint    `json:"id" gorm:"primarykey"`
	Email           string  `json:"email" gorm:"uniqueIndex;not null"`
	Prefix          *string `json:"prefix"`
	FirstName       string  `json:"first_name" gorm:"not null"`
	Patronymic      *string `json:"patronymic"`
	LastName        string  `json:"last_name" gorm:"not null"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Country         string  `json:"country" gorm:"not null"`
	Affiliation1    string  `json:"affiliation1" gorm:"not null"`
	Affiliation2    *string `json:"affiliation2"`
	Affiliation3    *string `json:"affiliation3"`
	IsCorresponding bool    `json:"is_corresponding" gorm:"default:false"`
	ORCID           *string `json:"orcid"`
	ScopusAuthorID  *string `json:"scopus_author_id"`
	ResearcherID    *string `json:"researcher_id"`
}
