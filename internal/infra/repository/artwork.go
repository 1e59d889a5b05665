package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/totegamma/artistdb/internal/domain"
	"github.com/totegamma/artistdb/internal/infra/database/models"
)

type ArtworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

func (r *ArtworkRepository) Create(ctx context.Context, artwork domain.Artwork) (domain.Artwork, error) {
	model := artworkModel(artwork)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Artwork{}, err
	}
	return artworkDomain(model), nil
}

func (r *ArtworkRepository) Get(ctx context.Context, id int64) (domain.Artwork, error) {
	var model models.Artwork
	err := r.db.WithContext(ctx).Take(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Artwork{}, domain.NotFoundError{Resource: "artwork"}
	}
	if err != nil {
		return domain.Artwork{}, err
	}
	return artworkDomain(model), nil
}

// Latest returns the most recently created artwork.
func (r *ArtworkRepository) Latest(ctx context.Context) (domain.Artwork, error) {
	var model models.Artwork
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Artwork{}, domain.NotFoundError{Resource: "artwork"}
	}
	if err != nil {
		return domain.Artwork{}, err
	}
	return artworkDomain(model), nil
}

// List returns artworks newest first; an empty status lists all of them.
func (r *ArtworkRepository) List(ctx context.Context, status domain.Status) ([]domain.Artwork, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var rows []models.Artwork
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Artwork, 0, len(rows))
	for _, row := range rows {
		result = append(result, artworkDomain(row))
	}
	return result, nil
}

func (r *ArtworkRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Artwork, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Artwork
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Artwork, 0, len(rows))
	for _, row := range rows {
		result = append(result, artworkDomain(row))
	}
	return result, nil
}

// Update overwrites every mutable column; CreatedAt and ID are never touched.
func (r *ArtworkRepository) Update(ctx context.Context, artwork domain.Artwork) error {
	model := artworkModel(artwork)
	result := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id = ?", artwork.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "artwork"}
	}
	return nil
}

// UpdateColumn sets one column on every listed artwork.
func (r *ArtworkRepository) UpdateColumn(ctx context.Context, ids []int64, column string, value any) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id IN ?", ids).
		Update(column, value).Error
}

// Delete removes the artwork and its location history together.
func (r *ArtworkRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LocationLog{}, "artwork_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Artwork{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "artwork"}
		}
		return nil
	})
}

func artworkModel(a domain.Artwork) models.Artwork {
	return models.Artwork{
		ID:            a.ID,
		Title:         a.Title,
		Year:          a.Year,
		Series:        a.Series,
		Medium:        a.Medium,
		Dimensions:    a.Dimensions,
		Description:   a.Description,
		EditionType:   a.EditionType,
		EditionInfo:   a.EditionInfo,
		Status:        string(a.Status),
		ForSale:       a.ForSale,
		Price:         a.Price,
		Notes:         a.Notes,
		ColorCode:     a.ColorCode,
		ImageFilename: a.ImageFilename,
		CreatedAt:     a.CreatedAt,
	}
}

func artworkDomain(m models.Artwork) domain.Artwork {
	return domain.Artwork{
		ID:            m.ID,
		Title:         m.Title,
		Year:          m.Year,
		Series:        m.Series,
		Medium:        m.Medium,
		Dimensions:    m.Dimensions,
		Description:   m.Description,
		EditionType:   m.EditionType,
		EditionInfo:   m.EditionInfo,
		Status:        domain.Status(m.Status),
		ForSale:       m.ForSale,
		Price:         m.Price,
		Notes:         m.Notes,
		ColorCode:     m.ColorCode,
		ImageFilename: m.ImageFilename,
		CreatedAt:     m.CreatedAt,
	}
}
