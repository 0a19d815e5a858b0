package store

import (
	"context"
	"fmt"

	"mealprep-backend/models"

	"gorm.io/gorm/clause"
)

func (s *Store) GetMeal(ctx context.Context, id uint) (*models.PlannedMeal, error) {
	var meal models.PlannedMeal
	if err := s.conn(ctx).Preload("Recipe").First(&meal, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &meal, nil
}

// CreateMeal inserts a planned meal. A populated Recipe field is not written.
func (s *Store) CreateMeal(ctx context.Context, meal *models.PlannedMeal) error {
	meal.ID = 0
	if err := s.conn(ctx).Omit(clause.Associations).Create(meal).Error; err != nil {
		return fmt.Errorf("failed to create planned meal: %w", err)
	}
	return nil
}

// UpdateMeal changes the slot name and recipe of a planned meal.
func (s *Store) UpdateMeal(ctx context.Context, meal *models.PlannedMeal) error {
	result := s.conn(ctx).Model(&models.PlannedMeal{}).
		Where("id = ?", meal.ID).
		Select("slot_name", "recipe_id").
		Updates(map[string]interface{}{
			"slot_name": meal.SlotName,
			"recipe_id": meal.RecipeID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update planned meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMeal(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&models.PlannedMeal{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete planned meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleMealSkip flips the skipped flag and returns the updated meal.
func (s *Store) ToggleMealSkip(ctx context.Context, id uint) (*models.PlannedMeal, error) {
	var meal models.PlannedMeal
	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.conn(ctx).First(&meal, id).Error; err != nil {
			return notFound(err)
		}
		meal.Skipped = !meal.Skipped
		if err := tx.conn(ctx).Model(&meal).UpdateColumn("skipped", meal.Skipped).Error; err != nil {
			return fmt.Errorf("failed to toggle skip: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meal, nil
}
