package database

import (
	"wealthcircle-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens the remote GORM DB from DSN (Postgres, pooler-friendly).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// OpenCache opens the local sqlite fallback used when the remote store
// denies ledger writes. Path ":memory:" is valid for tests.
func OpenCache(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// AutoMigrate runs migrations for all remote models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Settings{},
		&domain.Portfolio{},
		&domain.Profit{},
		&domain.Distribution{},
	)
}

// AutoMigrateCache runs migrations for the local ledger cache, which only
// holds distribution rows.
func AutoMigrateCache(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Distribution{})
}
