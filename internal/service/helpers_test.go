package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

var errDatabaseDown = errors.New("database is down")

type directoryFixture struct {
	minsk, homyel             models.Building
	org1, org2                models.Organization
	eat, milk, meat, sausages models.Activity
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupDirectoryDB(t *testing.T) (*gorm.DB, directoryFixture) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	var fx directoryFixture
	fx.minsk = models.Building{City: "Minsk", Street: "Nezavisimosti Ave", House: "1", Latitude: 53.9023, Longitude: 27.5619}
	fx.homyel = models.Building{City: "Homyel", Street: "Sovetskaya St", House: "2", Latitude: 52.4252, Longitude: 30.9754}
	require.NoError(t, db.Create(&fx.minsk).Error)
	require.NoError(t, db.Create(&fx.homyel).Error)

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

	return db, fx
}

// failingUnitOfWork fails before running any repository call.
type failingUnitOfWork struct {
	err   error
	calls int
}

func (u *failingUnitOfWork) Do(context.Context, func(context.Context, repository.Store) error) error {
	u.calls++
	return u.err
}

// mapActivityReader serves activities from memory and counts lookups per name.
type mapActivityReader struct {
	activities map[string]models.Activity
	lookups    map[string]int
	err        error
}

func newMapActivityReader(activities ...models.Activity) *mapActivityReader {
	reader := &mapActivityReader{activities: map[string]models.Activity{}, lookups: map[string]int{}}
	for _, activity := range activities {
		reader.activities[activity.Name] = activity
	}
	return reader
}

func (r *mapActivityReader) FindByName(_ context.Context, name string) (*models.Activity, error) {
	r.lookups[name]++
	if r.err != nil {
		return nil, r.err
	}
	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}
	return &activity, nil
}

func activityNames(activities []models.Activity) []string {
	names := make([]string, 0, len(activities))
	for _, activity := range activities {
		names = append(names, activity.Name)
	}
	return names
}

func intPtr(v int) *int { return &v }
