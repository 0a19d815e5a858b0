// Package storetest opens isolated in-memory stores for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mealprep-backend/models"
	"mealprep-backend/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated store backed by a private in-memory SQLite database.
func Open(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	return store.New(db)
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Recipe inserts a recipe and fails the test on error.
func Recipe(t *testing.T, s *store.Store, name string, mealType models.MealType, courses int, lastUsed *time.Time, ingredients ...models.Ingredient) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		CourseCount: courses,
		MealType:    mealType,
		Ingredients: ingredients,
	}
	require.NoError(t, s.CreateRecipe(context.Background(), recipe))
	if lastUsed != nil {
		require.NoError(t, s.SetLastUsed(context.Background(), recipe.ID, *lastUsed))
		recipe.LastUsed = models.DatePtr(lastUsed)
	}
	return recipe
}

// Week inserts a week and fails the test on error.
func Week(t *testing.T, s *store.Store, week models.MealPlanWeek) *models.MealPlanWeek {
	t.Helper()

	require.NoError(t, s.CreateWeek(context.Background(), &week))
	return &week
}

// Meal inserts a planned meal and fails the test on error.
func Meal(t *testing.T, s *store.Store, weekID, recipeID uint, slot string, skipped bool) *models.PlannedMeal {
	t.Helper()

	meal := &models.PlannedMeal{WeekID: weekID, RecipeID: recipeID, SlotName: slot}
	require.NoError(t, s.CreateMeal(context.Background(), meal))
	if skipped {
		toggled, err := s.ToggleMealSkip(context.Background(), meal.ID)
		require.NoError(t, err)
		meal = toggled
	}
	return meal
}

// Ptr returns a pointer to t.
func Ptr(t time.Time) *time.Time {
	return &t
}
