// Package store persists recipes, ingredients, meal-plan weeks and planned meals with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"mealprep-backend/config"
	"mealprep-backend/logging"
	"mealprep-backend/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("a recipe with this name already exists")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the configured database.
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logging.GormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Recipe{},
		&models.Ingredient{},
		&models.MealPlanWeek{},
		&models.PlannedMeal{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return backfillNameKeys(db)
}

// backfillNameKeys fills name_key for recipes stored before the column existed.
func backfillNameKeys(db *gorm.DB) error {
	var recipes []models.Recipe
	if err := db.Select("id", "name").Where("name_key = ?", "").Find(&recipes).Error; err != nil {
		return fmt.Errorf("failed to load recipes without name key: %w", err)
	}
	for _, r := range recipes {
		if err := db.Model(&models.Recipe{}).Where("id = ?", r.ID).
			UpdateColumn("name_key", models.NameKey(r.Name)).Error; err != nil {
			return fmt.Errorf("failed to backfill name key for recipe %d: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
