package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/artistdb/internal/domain"
	"github.com/totegamma/artistdb/internal/infra/database/models"
)

// TemplateRepository stores the certificate template singleton row.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Get returns the singleton, creating an empty row on first access.
func (r *TemplateRepository) Get(ctx context.Context) (domain.CertificateTemplate, error) {
	var model models.CertificateTemplate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return getOrCreateTemplate(tx, &model)
	})
	if err != nil {
		return domain.CertificateTemplate{}, err
	}
	return templateDomain(model), nil
}

// Save replaces design and HTML wholesale and bumps the version.
func (r *TemplateRepository) Save(ctx context.Context, designJSON, html string) (domain.CertificateTemplate, error) {
	var model models.CertificateTemplate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := getOrCreateTemplate(tx, &model); err != nil {
			return err
		}

		err := tx.Model(&models.CertificateTemplate{}).
			Where("id = ?", domain.TemplateID).
			Updates(map[string]any{
				"design_json": designJSON,
				"html":        html,
				"version":     gorm.Expr("version + 1"),
			}).Error
		if err != nil {
			return err
		}

		return tx.Take(&model, "id = ?", domain.TemplateID).Error
	})
	if err != nil {
		return domain.CertificateTemplate{}, err
	}
	return templateDomain(model), nil
}

func getOrCreateTemplate(tx *gorm.DB, model *models.CertificateTemplate) error {
	err := tx.Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&models.CertificateTemplate{ID: domain.TemplateID}).Error
	if err != nil {
		return err
	}
	return tx.Take(model, "id = ?", domain.TemplateID).Error
}

func templateDomain(m models.CertificateTemplate) domain.CertificateTemplate {
	t := domain.CertificateTemplate{
		ID:        m.ID,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DesignJSON != nil {
		t.DesignJSON = *m.DesignJSON
	}
	if m.HTML != nil {
		t.HTML = *m.HTML
	}
	return t
}
