package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/companies-api/internal/models"
)

// SeedBuilding is a building to upsert, addressed by Key from organizations.
type SeedBuilding struct {
	Key       string
	City      string
	Street    string
	House     string
	Latitude  float64
	Longitude float64
}

// SeedActivity is an activity to upsert; Parent names an activity listed earlier.
type SeedActivity struct {
	Name   string
	Parent string
}

// SeedOrganization is an organization to upsert.
type SeedOrganization struct {
	Name         string
	BuildingKey  string
	PhoneNumbers []string
	Activities   []string
}

// SeedUser is an account to upsert; HashedPassword is stored as given.
type SeedUser struct {
	Username       string
	HashedPassword string
	Disabled       bool
	Permissions    []string
}

// DirectorySeed is a complete directory snapshot.
type DirectorySeed struct {
	Buildings     []SeedBuilding
	Activities    []SeedActivity
	Organizations []SeedOrganization
	Users         []SeedUser
}

// SeedCounts reports how many rows of each kind were upserted.
type SeedCounts struct {
	Buildings     int64 `json:"buildings"`
	Activities    int64 `json:"activities"`
	Organizations int64 `json:"organizations"`
	PhoneNumbers  int64 `json:"phone_numbers"`
	Users         int64 `json:"users"`
}

// SeedRepository writes directory snapshots.
type SeedRepository interface {
	Import(ctx context.Context, seed DirectorySeed) (SeedCounts, error)
}

// ErrSeedReference reports a seed entry pointing at an unknown building or activity.
type ErrSeedReference struct {
	Kind string
	Name string
}

func (e ErrSeedReference) Error() string {
	return fmt.Sprintf("unknown %s reference %q", e.Kind, e.Name)
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository constructs the seed repository.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) Import(ctx context.Context, seed DirectorySeed) (SeedCounts, error) {
	var counts SeedCounts
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		buildings := make(map[string]uint, len(seed.Buildings))
		for _, item := range seed.Buildings {
			building := models.Building{City: item.City, Street: item.Street, House: item.House}
			if err := tx.Where(models.Building{City: item.City, Street: item.Street, House: item.House}).
				Assign(map[string]interface{}{"latitude": item.Latitude, "longitude": item.Longitude}).
				FirstOrCreate(&building).Error; err != nil {
				return fmt.Errorf("upsert building %q: %w", item.Key, err)
			}
			buildings[item.Key] = building.ID
			counts.Buildings++
		}

		activities := make(map[string]models.Activity, len(seed.Activities))
		for _, item := range seed.Activities {
			activity := models.Activity{Name: item.Name}
			if item.Parent != "" {
				parent, ok := activities[item.Parent]
				if !ok {
					return ErrSeedReference{Kind: "activity", Name: item.Parent}
				}
				activity.ParentID = &parent.ID
			}
			if err := tx.Where(models.Activity{Name: item.Name}).
				Assign(map[string]interface{}{"parent_id": activity.ParentID}).
				FirstOrCreate(&activity).Error; err != nil {
				return fmt.Errorf("upsert activity %q: %w", item.Name, err)
			}
			activities[item.Name] = activity
			counts.Activities++
		}

		for _, item := range seed.Organizations {
			organization := models.Organization{Name: item.Name}
			if item.BuildingKey != "" {
				buildingID, ok := buildings[item.BuildingKey]
				if !ok {
					return ErrSeedReference{Kind: "building", Name: item.BuildingKey}
				}
				organization.BuildingID = &buildingID
			}
			if err := tx.Where(models.Organization{Name: item.Name}).
				Assign(map[string]interface{}{"building_id": organization.BuildingID}).
				FirstOrCreate(&organization).Error; err != nil {
				return fmt.Errorf("upsert organization %q: %w", item.Name, err)
			}
			counts.Organizations++

			for _, number := range item.PhoneNumbers {
				phone := models.PhoneNumber{PhoneNumber: number}
				if err := tx.Where(models.PhoneNumber{PhoneNumber: number}).
					Assign(map[string]interface{}{"organization_id": organization.ID}).
					FirstOrCreate(&phone).Error; err != nil {
					return fmt.Errorf("upsert phone number %q: %w", number, err)
				}
				counts.PhoneNumbers++
			}

			linked := make([]models.Activity, 0, len(item.Activities))
			for _, name := range item.Activities {
				activity, ok := activities[name]
				if !ok {
					return ErrSeedReference{Kind: "activity", Name: name}
				}
				linked = append(linked, activity)
			}
			if err := tx.Model(&organization).Association("Activities").Replace(linked); err != nil {
				return fmt.Errorf("link activities of %q: %w", item.Name, err)
			}
		}

		permissions := make(map[string]models.Permission)
		for _, item := range seed.Users {
			user := models.User{Username: item.Username}
			if err := tx.Where(models.User{Username: item.Username}).
				Assign(map[string]interface{}{"hashed_password": item.HashedPassword, "disabled": item.Disabled}).
				FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("upsert user %q: %w", item.Username, err)
			}

			granted := make([]models.Permission, 0, len(item.Permissions))
			for _, name := range item.Permissions {
				permission, ok := permissions[name]
				if !ok {
					permission = models.Permission{Name: name}
					if err := tx.Where(models.Permission{Name: name}).FirstOrCreate(&permission).Error; err != nil {
						return fmt.Errorf("upsert permission %q: %w", name, err)
					}
					permissions[name] = permission
				}
				granted = append(granted, permission)
			}
			if err := tx.Model(&user).Association("Permissions").Replace(granted); err != nil {
				return fmt.Errorf("grant permissions to %q: %w", item.Username, err)
			}
			counts.Users++
		}

		return nil
	})
	if err != nil {
		return SeedCounts{}, err
	}
	return counts, nil
}
