package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/companies-api/internal/models"
)

// OrganizationRepository reads organizations together with their phone numbers.
type OrganizationRepository interface {
	ListByAddress(ctx context.Context, city, street, house string) ([]models.Organization, error)
	ListByActivityName(ctx context.Context, activity string) ([]models.Organization, error)
	FindByID(ctx context.Context, id uint) (*models.Organization, error)
	FindByName(ctx context.Context, name string) (*models.Organization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository instantiates a GORM-backed repository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) ListByAddress(ctx context.Context, city, street, house string) ([]models.Organization, error) {
	var organizations []models.Organization
	err := r.db.WithContext(ctx).
		Joins("JOIN buildings ON buildings.id = organizations.building_id").
		Where("buildings.city = ? AND buildings.street = ? AND buildings.house = ?", city, street, house).
		Preload("PhoneNumbers", orderPhoneNumbers).
		Preload("Building").
		Order("organizations.id ASC").
		Find(&organizations).Error
	if err != nil {
		return nil, err
	}
	return organizations, nil
}

func (r *organizationRepository) ListByActivityName(ctx context.Context, activity string) ([]models.Organization, error) {
	db := r.db.WithContext(ctx)
	linked := db.Table("organization_activities").
		Select("organization_activities.organization_id").
		Joins("JOIN activities ON activities.id = organization_activities.activity_id").
		Where("activities.name = ?", activity)

	var organizations []models.Organization
	err := db.
		Where("organizations.id IN (?)", linked).
		Preload("PhoneNumbers", orderPhoneNumbers).
		Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("activities.id ASC") }).
		Order("organizations.id ASC").
		Find(&organizations).Error
	if err != nil {
		return nil, err
	}
	return organizations, nil
}

func (r *organizationRepository) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	return r.first(ctx, "organizations.id = ?", id)
}

func (r *organizationRepository) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	return r.first(ctx, "organizations.name = ?", name)
}

func (r *organizationRepository) first(ctx context.Context, query string, arg interface{}) (*models.Organization, error) {
	var organization models.Organization
	err := r.db.WithContext(ctx).
		Preload("PhoneNumbers", orderPhoneNumbers).
		Preload("Building").
		Where(query, arg).
		Order("organizations.id ASC").
		First(&organization).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &organization, nil
}
