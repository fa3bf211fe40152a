package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/companies-api/internal/models"
)

type directoryFixture struct {
	minsk, homyel, vitebsk    models.Building
	org1, org2                models.Organization
	eat, milk, meat, sausages models.Activity
}

func TestBuildingRepositoryListByCity(t *testing.T) {
	db := setupTestDB(t)
	fx := seedDirectory(t, db)
	repo := NewBuildingRepository(db)

	buildings, err := repo.ListByCity(context.Background(), "Minsk")
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	require.Equal(t, fx.minsk.ID, buildings[0].ID)
	require.InDelta(t, 53.9023, buildings[0].Latitude, 1e-9)

	none, err := repo.ListByCity(context.Background(), "Grodno")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestOrganizationRepositoryListByAddressMatchesAllFields(t *testing.T) {
	db := setupTestDB(t)
	fx := seedDirectory(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	orgs, err := repo.ListByAddress(ctx, "Minsk", "Nezavisimosti Ave", "1")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	require.Equal(t, fx.org1.ID, orgs[0].ID)
	require.Equal(t, "Org 1", orgs[0].Name)
	require.Len(t, orgs[0].PhoneNumbers, 1)
	require.Equal(t, "123456789", orgs[0].PhoneNumbers[0].PhoneNumber)
	require.NotNil(t, orgs[0].Building)
	require.Equal(t, "Minsk", orgs[0].Building.City)

	for _, addr := range [][3]string{
		{"Homyel", "Nezavisimosti Ave", "1"},
		{"Minsk", "Sovetskaya St", "1"},
		{"Minsk", "Nezavisimosti Ave", "2"},
	} {
		orgs, err := repo.ListByAddress(ctx, addr[0], addr[1], addr[2])
		require.NoError(t, err)
		require.Empty(t, orgs, "address %v", addr)
	}
}

func TestOrganizationRepositoryListByActivityName(t *testing.T) {
	db := setupTestDB(t)
	fx := seedDirectory(t, db)
	repo := NewOrganizationRepository(db)

	orgs, err := repo.ListByActivityName(context.Background(), "Milk")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	require.Equal(t, fx.org2.ID, orgs[0].ID)
	require.Len(t, orgs[0].Activities, 1)
	require.Equal(t, "Milk", orgs[0].Activities[0].Name)

	orgs, err = repo.ListByActivityName(context.Background(), "Sausages")
	require.NoError(t, err)
	require.Empty(t, orgs)
}

func TestOrganizationRepositoryFindByIDAndName(t *testing.T) {
	db := setupTestDB(t)
	fx := seedDirectory(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	org, err := repo.FindByID(ctx, fx.org2.ID)
	require.NoError(t, err)
	require.NotNil(t, org)
	require.Equal(t, "Org 2", org.Name)
	require.Equal(t, "Homyel", org.Building.City)

	missing, err := repo.FindByID(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, missing)

	byName, err := repo.FindByName(ctx, "Org 1")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, fx.org1.ID, byName.ID)

	missing, err = repo.FindByName(ctx, "Org 42")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestActivityRepositoryFindByNameLoadsChildrenAndOrganizations(t *testing.T) {
	db := setupTestDB(t)
	fx := seedDirectory(t, db)
	repo := NewActivityRepository(db)

	eat, err := repo.FindByName(context.Background(), "Eat")
	require.NoError(t, err)
	require.NotNil(t, eat)
	require.Equal(t, fx.eat.ID, eat.ID)
	require.Len(t, eat.Children, 2)
	require.Equal(t, "Milk", eat.Children[0].Name, "children are ordered by id")
	require.Equal(t, "Meat", eat.Children[1].Name)
	require.Len(t, eat.Organizations, 1)
	require.Equal(t, "Org 1", eat.Organizations[0].Name)
	require.Len(t, eat.Organizations[0].PhoneNumbers, 1)

	meat, err := repo.FindByName(context.Background(), "Meat")
	require.NoError(t, err)
	require.Len(t, meat.Children, 1)
	require.Equal(t, fx.sausages.ID, meat.Children[0].ID)

	missing, err := repo.FindByName(context.Background(), "Drink")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	uow := NewUnitOfWork(db)

	sentinel := fmt.Errorf("boom")
	err := uow.Do(context.Background(), func(ctx context.Context, store Store) error {
		orgs, err := store.Organizations().ListByAddress(ctx, "Minsk", "Nezavisimosti Ave", "1")
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	err = uow.Do(context.Background(), func(ctx context.Context, store Store) error {
		user, err := store.Users().FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		require.Nil(t, user)
		return nil
	})
	require.NoError(t, err)
}

func TestUserRepositoryLoadsPermissions(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{
		Username:       "alice",
		HashedPassword: "hash",
		Permissions:    []models.Permission{{Name: "basic_user"}, {Name: "advanced_user"}},
	}
	require.NoError(t, db.Create(&user).Error)

	stored, err := NewUserRepository(db).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, []string{"basic_user", "advanced_user"}, stored.ScopeNames())
}

func TestAuditLogRepositoryCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.AuditLog{Actor: "alice", Action: "auth.token_issued", Outcome: "success", Metadata: map[string]interface{}{"scopes": "basic_user"}}))
	require.NoError(t, repo.Create(ctx, &models.AuditLog{Actor: "bob", Action: "auth.login_failed", Outcome: "rejected"}))

	entries, total, err := repo.List(ctx, AuditLogFilter{Actor: "alice"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, "basic_user", entries[0].Metadata["scopes"])

	_, total, err = repo.List(ctx, AuditLogFilter{Page: 1, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func seedDirectory(t *testing.T, db *gorm.DB) directoryFixture {
	t.Helper()
	var fx directoryFixture

	fx.minsk = models.Building{City: "Minsk", Street: "Nezavisimosti Ave", House: "1", Latitude: 53.9023, Longitude: 27.5619}
	fx.homyel = models.Building{City: "Homyel", Street: "Sovetskaya St", House: "2", Latitude: 52.4252, Longitude: 30.9754}
	fx.vitebsk = models.Building{City: "Vitebsk", Street: "Lenina St", House: "3", Latitude: 55.1938, Longitude: 30.2033}
	require.NoError(t, db.Create(&fx.minsk).Error)
	require.NoError(t, db.Create(&fx.homyel).Error)
	require.NoError(t, db.Create(&fx.vitebsk).Error)

	fx.org1 = models.Organization{Name: "Org 1", BuildingID: &fx.minsk.ID}
	fx.org2 = models.Organization{Name: "Org 2", BuildingID: &fx.homyel.ID}
	require.NoError(t, db.Create(&fx.org1).Error)
	require.NoError(t, db.Create(&fx.org2).Error)
	require.NoError(t, db.Create(&models.PhoneNumber{PhoneNumber: "123456789", OrganizationID: fx.org1.ID}).Error)
	require.NoError(t, db.Create(&models.PhoneNumber{PhoneNumber: "987654321", OrganizationID: fx.org2.ID}).Error)

	fx.eat = models.Activity{Name: "Eat"}
	require.NoError(t, db.Create(&fx.eat).Error)
	fx.milk = models.Activity{Name: "Milk", ParentID: &fx.eat.ID}
	require.NoError(t, db.Create(&fx.milk).Error)
	fx.meat = models.Activity{Name: "Meat", ParentID: &fx.eat.ID}
	require.NoError(t, db.Create(&fx.meat).Error)
	fx.sausages = models.Activity{Name: "Sausages", ParentID: &fx.meat.ID}
	require.NoError(t, db.Create(&fx.sausages).Error)

	require.NoError(t, db.Model(&fx.org1).Association("Activities").Append(&fx.eat))
	require.NoError(t, db.Model(&fx.org2).Association("Activities").Append(&fx.milk))

	return fx
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}
