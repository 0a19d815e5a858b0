package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealprep-backend/models"

	"gorm.io/gorm"
)

func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.conn(ctx).Order("name ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *Store) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.conn(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("ingredients.id ASC")
	}).First(&recipe, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// NameTaken reports whether another recipe already uses name, ignoring case.
// excludeID is skipped so a recipe can keep its own name on edit. Names are
// compared on the stored name_key because SQLite's LOWER only folds ASCII.
func (s *Store) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := s.conn(ctx).Model(&models.Recipe{}).Where("name_key = ?", models.NameKey(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe name: %w", err)
	}
	return count > 0, nil
}

// CreateRecipe inserts the recipe and its ingredients in one transaction.
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.Transaction(ctx, func(tx *Store) error {
		taken, err := tx.NameTaken(ctx, recipe.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}

		recipe.ID = 0
		recipe.NameKey = models.NameKey(recipe.Name)
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
		}
		if err := tx.conn(ctx).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return nil
	})
}

// UpdateRecipe saves the editable recipe fields and replaces its ingredients.
// last_used is left untouched.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var existing models.Recipe
		if err := tx.conn(ctx).First(&existing, recipe.ID).Error; err != nil {
			return notFound(err)
		}

		taken, err := tx.NameTaken(ctx, recipe.Name, recipe.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}

		if err := tx.conn(ctx).Model(&existing).
			Select("name", "name_key", "course_count", "meal_type", "source_note").
			Updates(models.Recipe{
				Name:        recipe.Name,
				NameKey:     models.NameKey(recipe.Name),
				CourseCount: recipe.CourseCount,
				MealType:    recipe.MealType,
				SourceNote:  recipe.SourceNote,
			}).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if err := tx.conn(ctx).Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredients: %w", err)
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.conn(ctx).Create(&recipe.Ingredients).Error; err != nil {
				return fmt.Errorf("failed to create ingredients: %w", err)
			}
		}
		recipe.NameKey = models.NameKey(recipe.Name)
		recipe.LastUsed = existing.LastUsed
		return nil
	})
}

// DeleteRecipe removes the recipe, its ingredients and every planned meal that uses it.
func (s *Store) DeleteRecipe(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.conn(ctx).Where("recipe_id = ?", id).Delete(&models.PlannedMeal{}).Error; err != nil {
			return fmt.Errorf("failed to delete planned meals: %w", err)
		}
		if err := tx.conn(ctx).Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		result := tx.conn(ctx).Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RecipesMatching returns every recipe of the given meal type and course count.
func (s *Store) RecipesMatching(ctx context.Context, mealType models.MealType, courseCount int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.conn(ctx).
		Where("meal_type = ? AND course_count = ?", mealType, courseCount).
		Order("name ASC").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s recipes: %w", mealType, err)
	}
	return recipes, nil
}

// SetLastUsed writes only the last_used column.
func (s *Store) SetLastUsed(ctx context.Context, recipeID uint, day time.Time) error {
	result := s.conn(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("last_used", models.Date(day))
	if result.Error != nil {
		return fmt.Errorf("failed to update last_used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportRecipe creates the recipe unless its name is taken. It reports whether
// the recipe was created.
func (s *Store) ImportRecipe(ctx context.Context, recipe *models.Recipe) (bool, error) {
	err := s.CreateRecipe(ctx, recipe)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDuplicateName):
		return false, nil
	default:
		return false, err
	}
}
