// Package planner fills a meal-plan week with recipes from the catalog.
//
// Each week has a fixed set of slots. For every slot the builder prefers recipes
// that have not been cooked recently, oldest first, and falls back to any unused
// matching recipe when the catalog is too small to honour the recency window.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mealprep-backend/models"

	"go.uber.org/zap"
)

const DefaultRecencyDays = 30

// Slot is a fixed position in a weekly plan.
type Slot struct {
	Name        string
	MealType    models.MealType
	CourseCount int
}

// Slots are filled in this order.
var Slots = []Slot{
	{Name: "Lunch", MealType: models.MealTypeLunch, CourseCount: 8},
	{Name: "Vegetarian Dinner", MealType: models.MealTypeVegetarian, CourseCount: 4},
	{Name: "Protein Dinner", MealType: models.MealTypeProtein, CourseCount: 4},
	{Name: "Seafood Dinner", MealType: models.MealTypeSeafood, CourseCount: 2},
}

// Store is the persistence the builder needs.
type Store interface {
	ClearMeals(ctx context.Context, weekID uint) error
	RecipesMatching(ctx context.Context, mealType models.MealType, courseCount int) ([]models.Recipe, error)
	CreateMeal(ctx context.Context, meal *models.PlannedMeal) error
	SetLastUsed(ctx context.Context, recipeID uint, day time.Time) error
}

// Result summarises one build.
type Result struct {
	ReferenceDate time.Time
	Meals         []models.PlannedMeal
	Unfilled      []string
	Skipped       bool
}

type Builder struct {
	store       Store
	now         func() time.Time
	recencyDays int
	logger      *zap.Logger
}

type Option func(*Builder)

// WithClock replaces time.Now as the fallback reference date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func WithRecencyDays(days int) Option {
	return func(b *Builder) { b.recencyDays = days }
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func NewBuilder(store Store, opts ...Option) *Builder {
	b := &Builder{
		store:       store,
		now:         time.Now,
		recencyDays: DefaultRecencyDays,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build replaces the week's planned meals with one per slot. A skipped week is
// left untouched. Slots with no matching recipe are reported in Result.Unfilled.
func (b *Builder) Build(ctx context.Context, week *models.MealPlanWeek) (*Result, error) {
	if week.Skipped {
		b.logger.Debug("week skipped, nothing to build", zap.Uint("week_id", week.ID))
		return &Result{Skipped: true}, nil
	}

	if err := b.store.ClearMeals(ctx, week.ID); err != nil {
		return nil, err
	}

	reference := b.ReferenceDate(week)
	cutoff := reference.AddDate(0, 0, -b.recencyDays)
	result := &Result{ReferenceDate: reference}
	chosen := make(map[uint]bool)

	for _, slot := range Slots {
		candidates, err := b.store.RecipesMatching(ctx, slot.MealType, slot.CourseCount)
		if err != nil {
			return nil, err
		}

		recipe := Pick(candidates, chosen, cutoff)
		if recipe == nil {
			b.logger.Info("no recipe for slot",
				zap.Uint("week_id", week.ID),
				zap.String("slot", slot.Name))
			result.Unfilled = append(result.Unfilled, slot.Name)
			continue
		}

		meal := models.PlannedMeal{WeekID: week.ID, RecipeID: recipe.ID, SlotName: slot.Name}
		if err := b.store.CreateMeal(ctx, &meal); err != nil {
			return nil, err
		}
		chosen[recipe.ID] = true

		if err := b.store.SetLastUsed(ctx, recipe.ID, reference); err != nil {
			return nil, fmt.Errorf("slot %s: %w", slot.Name, err)
		}
		recipe.LastUsed = &reference
		meal.Recipe = *recipe
		result.Meals = append(result.Meals, meal)

		b.logger.Debug("slot filled",
			zap.Uint("week_id", week.ID),
			zap.String("slot", slot.Name),
			zap.String("recipe", recipe.Name))
	}

	return result, nil
}

// ReferenceDate is the week's start date, or today when it has none.
func (b *Builder) ReferenceDate(week *models.MealPlanWeek) time.Time {
	if week.StartDate != nil {
		return models.Date(*week.StartDate)
	}
	return models.Date(b.now())
}

// Pick chooses a recipe among candidates that are not in chosen.
//
// Recipes last used on or after cutoff are passed over in favour of ones never
// used or used longest ago, ties broken by name. When every unchosen candidate
// is that recent, the first unchosen candidate by name is returned instead.
func Pick(candidates []models.Recipe, chosen map[uint]bool, cutoff time.Time) *models.Recipe {
	var fresh, unchosen []models.Recipe
	for _, r := range candidates {
		if chosen[r.ID] {
			continue
		}
		unchosen = append(unchosen, r)
		if r.LastUsed == nil || r.LastUsed.Before(cutoff) {
			fresh = append(fresh, r)
		}
	}

	if len(fresh) > 0 {
		sort.SliceStable(fresh, func(i, j int) bool {
			a, b := fresh[i].LastUsed, fresh[j].LastUsed
			switch {
			case a == nil && b != nil:
				return true
			case a != nil && b == nil:
				return false
			case a != nil && b != nil && !a.Equal(*b):
				return a.Before(*b)
			}
			return nameLess(fresh[i].Name, fresh[j].Name)
		})
		return &fresh[0]
	}

	if len(unchosen) == 0 {
		return nil
	}
	sort.SliceStable(unchosen, func(i, j int) bool {
		return nameLess(unchosen[i].Name, unchosen[j].Name)
	})
	return &unchosen[0]
}

// nameLess orders names alphabetically regardless of case.
func nameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
