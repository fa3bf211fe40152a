package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/companies-api/internal/models"
)

// ActivityRepository reads the activity taxonomy.
type ActivityRepository interface {
	// FindByName returns the first activity with the given name, with its direct children and
	// its organizations (and their phone numbers) loaded. A missing activity yields nil, nil.
	FindByName(ctx context.Context, name string) (*models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository instantiates a GORM-backed repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("activities.id ASC") }).
		Preload("Organizations", func(db *gorm.DB) *gorm.DB { return db.Order("organizations.id ASC") }).
		Preload("Organizations.PhoneNumbers", orderPhoneNumbers).
		Where("name = ?", name).
		Order("id ASC").
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func orderPhoneNumbers(db *gorm.DB) *gorm.DB {
	return db.Order("phone_numbers.id ASC")
}
