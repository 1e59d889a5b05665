package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/artistdb/internal/domain"
	"github.com/totegamma/artistdb/internal/infra/database/models"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Append(ctx context.Context, entry domain.LocationLog) (domain.LocationLog, error) {
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	model := models.LocationLog{
		ArtworkID: entry.ArtworkID,
		Location:  entry.Location,
		Note:      entry.Note,
		ChangedAt: entry.ChangedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return domain.LocationLog{}, err
	}
	return locationDomain(model), nil
}

// Current is the entry with the greatest timestamp.
func (r *LocationRepository) Current(ctx context.Context, artworkID int64) (domain.LocationLog, error) {
	var model models.LocationLog
	err := r.db.WithContext(ctx).
		Where("artwork_id = ?", artworkID).
		Order("changed_at DESC, id DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.LocationLog{}, domain.NotFoundError{Resource: "location"}
	}
	if err != nil {
		return domain.LocationLog{}, err
	}
	return locationDomain(model), nil
}

func (r *LocationRepository) History(ctx context.Context, artworkID int64) ([]domain.LocationLog, error) {
	var rows []models.LocationLog
	err := r.db.WithContext(ctx).
		Where("artwork_id = ?", artworkID).
		Order("changed_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.LocationLog, 0, len(rows))
	for _, row := range rows {
		result = append(result, locationDomain(row))
	}
	return result, nil
}

func locationDomain(m models.LocationLog) domain.LocationLog {
	return domain.LocationLog{
		ID:        m.ID,
		ArtworkID: m.ArtworkID,
		Location:  m.Location,
		Note:      m.Note,
		ChangedAt: m.ChangedAt,
	}
}
