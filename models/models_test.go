package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabels(t *testing.T) {
	assert.Equal(t, "Vegetarian Dinner", MealTypeVegetarian.Label())
	assert.Equal(t, "brunch", MealType("brunch").Label())
	assert.False(t, MealType("brunch").Valid())
	assert.True(t, MealTypeOther.Valid())

	assert.Equal(t, "Frozen", CategoryFrozen.Label())
	assert.Equal(t, "bakery", Category("bakery").Label())
	assert.False(t, Category("bakery").Valid())
}

func TestDate(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	got := Date(time.Date(2024, time.March, 4, 22, 30, 0, 0, est))
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), got)

	assert.Nil(t, DatePtr(nil))
	assert.Equal(t, "lentil soup", NameKey("  Lentil Soup "))
}
