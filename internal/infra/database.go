package infra

import (
	"fmt"

	"github.com/B0bbyBrown/ExpendiForge/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// starterCategories is created once on an empty database so the upload form
// always has something to pick from.
var starterCategories = []string{
	"Office Supplies",
	"Electronics",
	"Services",
	"Miscellaneous",
}

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then seeds the starter categories if absent.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Purchase{},
		&model.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := SeedCategories(db); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	return db, nil
}

// SeedCategories inserts the starter set, skipping names that already exist.
// Idempotent: safe to run on every startup.
func SeedCategories(db *gorm.DB) error {
	for _, name := range starterCategories {
		var count int64
		if err := db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&model.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
