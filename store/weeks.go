package store

import (
	"context"
	"fmt"

	"mealprep-backend/models"

	"gorm.io/gorm"
)

// ListWeeks returns active or archived weeks, newest first.
func (s *Store) ListWeeks(ctx context.Context, archived bool) ([]models.MealPlanWeek, error) {
	var weeks []models.MealPlanWeek
	if err := s.conn(ctx).
		Where("archived = ?", archived).
		Order("start_date DESC").Order("id DESC").
		Find(&weeks).Error; err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	return weeks, nil
}

// SelectableWeeks returns the non-archived weeks offered on the shopping-list page,
// oldest first.
func (s *Store) SelectableWeeks(ctx context.Context) ([]models.MealPlanWeek, error) {
	var weeks []models.MealPlanWeek
	if err := s.conn(ctx).
		Where("archived = ?", false).
		Order("start_date ASC").Order("id ASC").
		Find(&weeks).Error; err != nil {
		return nil, fmt.Errorf("failed to list selectable weeks: %w", err)
	}
	return weeks, nil
}

// WeeksByIDs loads the given weeks without their meals, oldest first.
func (s *Store) WeeksByIDs(ctx context.Context, ids []uint) ([]models.MealPlanWeek, error) {
	var weeks []models.MealPlanWeek
	if len(ids) == 0 {
		return weeks, nil
	}
	if err := s.conn(ctx).
		Where("id IN ?", ids).
		Order("start_date ASC").Order("id ASC").
		Find(&weeks).Error; err != nil {
		return nil, fmt.Errorf("failed to load weeks: %w", err)
	}
	return weeks, nil
}

// WeeksWithIngredients loads the given weeks with meals, recipes and ingredients.
// Skipped and archived weeks are returned too; callers decide what to drop.
func (s *Store) WeeksWithIngredients(ctx context.Context, ids []uint) ([]models.MealPlanWeek, error) {
	var weeks []models.MealPlanWeek
	if len(ids) == 0 {
		return weeks, nil
	}
	if err := s.conn(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("planned_meals.id ASC")
		}).
		Preload("Meals.Recipe").
		Preload("Meals.Recipe.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.id ASC")
		}).
		Where("id IN ?", ids).
		Order("start_date ASC").Order("id ASC").
		Find(&weeks).Error; err != nil {
		return nil, fmt.Errorf("failed to load weeks with ingredients: %w", err)
	}
	return weeks, nil
}

// GetWeek loads a week with its meals ordered by slot name.
func (s *Store) GetWeek(ctx context.Context, id uint) (*models.MealPlanWeek, error) {
	var week models.MealPlanWeek
	err := s.conn(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("planned_meals.slot_name ASC").Order("planned_meals.id ASC")
		}).
		Preload("Meals.Recipe").
		First(&week, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &week, nil
}

func (s *Store) CreateWeek(ctx context.Context, week *models.MealPlanWeek) error {
	week.ID = 0
	week.StartDate = models.DatePtr(week.StartDate)
	if err := s.conn(ctx).Omit("Meals").Create(week).Error; err != nil {
		return fmt.Errorf("failed to create week: %w", err)
	}
	return nil
}

func (s *Store) SetArchived(ctx context.Context, id uint, archived bool) error {
	result := s.conn(ctx).Model(&models.MealPlanWeek{}).Where("id = ?", id).UpdateColumn("archived", archived)
	if result.Error != nil {
		return fmt.Errorf("failed to update week: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWeek removes the week and its planned meals.
func (s *Store) DeleteWeek(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.ClearMeals(ctx, id); err != nil {
			return err
		}
		result := tx.conn(ctx).Delete(&models.MealPlanWeek{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete week: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ClearMeals deletes every planned meal of a week.
func (s *Store) ClearMeals(ctx context.Context, weekID uint) error {
	if err := s.conn(ctx).Where("week_id = ?", weekID).Delete(&models.PlannedMeal{}).Error; err != nil {
		return fmt.Errorf("failed to clear meals for week %d: %w", weekID, err)
	}
	return nil
}
