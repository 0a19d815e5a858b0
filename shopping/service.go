package shopping

import (
	"context"
	"errors"

	"mealprep-backend/models"
)

// ErrNoSelection means an export carried neither items nor weeks.
var ErrNoSelection = errors.New("no shopping items or weeks selected")

type Store interface {
	WeeksWithIngredients(ctx context.Context, ids []uint) ([]models.MealPlanWeek, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ForWeeks computes the list for the selected weeks from their recipes. With
// no weeks selected there is no list and the result is nil.
func (s *Service) ForWeeks(ctx context.Context, weekIDs []uint) (*List, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	weeks, err := s.store.WeeksWithIngredients(ctx, weekIDs)
	if err != nil {
		return nil, err
	}
	return Aggregate(weeks), nil
}

// ForExport honours items the user kept on the review page when there are any,
// and otherwise recomputes from weekIDs.
func (s *Service) ForExport(ctx context.Context, items []string, weekIDs []uint) (*List, error) {
	if len(items) > 0 {
		return FromTokens(items), nil
	}
	if len(weekIDs) == 0 {
		return nil, ErrNoSelection
	}
	return s.ForWeeks(ctx, weekIDs)
}
