package models

import (
	"time"
)

type Artwork struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"type:varchar(200);not null"`
	Year          string    `json:"year" gorm:"type:varchar(10)"`
	Series        string    `json:"series" gorm:"type:varchar(200)"`
	Medium        string    `json:"medium" gorm:"type:varchar(200);not null"`
	Dimensions    string    `json:"dimensions" gorm:"type:varchar(200)"`
	Description   string    `json:"description" gorm:"type:text"`
	EditionType   string    `json:"editionType" gorm:"type:varchar(50)"`
	EditionInfo   string    `json:"editionInfo" gorm:"type:varchar(50)"`
	Status        string    `json:"status" gorm:"type:varchar(50);not null;default:'working';index"`
	ForSale       bool      `json:"forSale" gorm:"not null;default:false"`
	Price         string    `json:"price" gorm:"type:varchar(50)"`
	Notes         string    `json:"notes" gorm:"type:text"`
	ColorCode     string    `json:"colorcode" gorm:"column:colorcode;type:varchar(50)"`
	ImageFilename string    `json:"imageFilename" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

type LocationLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ArtworkID int64     `json:"artworkID" gorm:"not null;index"`
	Artwork   Artwork   `json:"-" gorm:"foreignKey:ArtworkID;references:ID;constraint:OnDelete:CASCADE;"`
	Location  string    `json:"location" gorm:"type:varchar(200);not null"`
	Note      string    `json:"note" gorm:"type:text"`
	ChangedAt time.Time `json:"changedAt" gorm:"not null;index"`
}
