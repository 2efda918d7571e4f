package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every model migrated.
// A single connection keeps the in-memory database alive across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockGorm creates a GORM DB over sqlmock using the postgres dialect
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

type fixture struct {
	Distributor models.DistributorModel
	Owner       models.OwnerModel
	Consumer    models.InstallationModel
	Generator   models.InstallationModel
}

// seedFixture inserts one distributor with a consumer and a generator installation
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	now := time.Now()
	f := fixture{
		Distributor: models.DistributorModel{ID: uuid.New(), Name: "CEMIG", Code: "cemig", CreatedAt: now},
		Owner:       models.OwnerModel{ID: uuid.New(), Name: "Maria Silva", Document: "12345678900", CreatedAt: now},
	}
	f.Consumer = models.InstallationModel{
		ID:            uuid.New(),
		Number:        "3001",
		Type:          energy.InstallationTypeConsumer,
		DistributorID: f.Distributor.ID,
		OwnerID:       &f.Owner.ID,
		Status:        energy.InstallationStatusActive,
		CreatedAt:     now,
	}
	f.Generator = models.InstallationModel{
		ID:            uuid.New(),
		Number:        "9001",
		Type:          energy.InstallationTypeGenerator,
		DistributorID: f.Distributor.ID,
		Status:        energy.InstallationStatusActive,
		CreatedAt:     now,
	}

	require.NoError(t, db.Create(&f.Distributor).Error)
	require.NoError(t, db.Create(&f.Owner).Error)
	require.NoError(t, db.Create(&f.Consumer).Error)
	require.NoError(t, db.Create(&f.Generator).Error)
	return f
}

func ptr(v float64) *float64 { return &v }
