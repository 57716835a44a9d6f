package database

import (
	"proact-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 when running behind a connection pooler.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all persisted entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Project{},
		&domain.InventoryItem{},
		&domain.UsedItem{},
		&domain.ProjectUpdate{},
		&domain.ProjectVote{},
		&domain.Comment{},
		&domain.Report{},
		&domain.ProjectAnalysis{},
		&domain.AggregateAnalysis{},
		&domain.Notification{},
	)
}
