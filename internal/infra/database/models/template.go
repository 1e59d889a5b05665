package models

import "time"

type CertificateTemplate struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	DesignJSON *string   `json:"designJSON" gorm:"type:text"`
	HTML       *string   `json:"html" gorm:"type:text"`
	Version    int64     `json:"version" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (CertificateTemplate) TableName() string {
	return "certificate_templates"
}
