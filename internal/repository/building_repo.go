package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/companies-api/internal/models"
)

// BuildingRepository reads buildings.
type BuildingRepository interface {
	ListByCity(ctx context.Context, city string) ([]models.Building, error)
}

type buildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository instantiates a GORM-backed repository.
func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) ListByCity(ctx context.Context, city string) ([]models.Building, error) {
	var buildings []models.Building
	if err := r.db.WithContext(ctx).Where("city = ?", city).Order("id ASC").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}
