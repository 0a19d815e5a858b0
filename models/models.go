package models

import (
	"strings"
	"time"
)

type MealType string

const (
	MealTypeLunch      MealType = "lunch"
	MealTypeVegetarian MealType = "vegetarian"
	MealTypeSeafood    MealType = "seafood"
	MealTypeProtein    MealType = "protein"
	MealTypeOther      MealType = "other"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{
	MealTypeLunch,
	MealTypeVegetarian,
	MealTypeSeafood,
	MealTypeProtein,
	MealTypeOther,
}

var mealTypeLabels = map[MealType]string{
	MealTypeLunch:      "Lunch",
	MealTypeVegetarian: "Vegetarian Dinner",
	MealTypeSeafood:    "Seafood Dinner",
	MealTypeProtein:    "Protein Dinner",
	MealTypeOther:      "Other",
}

func (m MealType) Label() string {
	if label, ok := mealTypeLabels[m]; ok {
		return label
	}
	return string(m)
}

func (m MealType) Valid() bool {
	_, ok := mealTypeLabels[m]
	return ok
}

type Category string

const (
	CategoryPantry  Category = "pantry"
	CategoryProduce Category = "produce"
	CategoryProtein Category = "protein"
	CategoryFrozen  Category = "frozen"
	CategoryDairy   Category = "dairy"
)

// Categories is the fixed shopping-list bucket order.
var Categories = []Category{
	CategoryPantry,
	CategoryProduce,
	CategoryProtein,
	CategoryFrozen,
	CategoryDairy,
}

var categoryLabels = map[Category]string{
	CategoryPantry:  "Pantry",
	CategoryProduce: "Produce",
	CategoryProtein: "Protein",
	CategoryFrozen:  "Frozen",
	CategoryDairy:   "Dairy",
}

// Label falls back to the raw key for categories outside the fixed set.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

type Recipe struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	NameKey     string     `json:"-" gorm:"size:200;not null;default:'';index"`
	CourseCount int        `json:"course_count" gorm:"not null"`
	MealType    MealType   `json:"meal_type" gorm:"size:20;not null;default:other"`
	SourceNote  string     `json:"source_note" gorm:"size:200"`
	LastUsed    *time.Time `json:"last_used" gorm:"type:date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Ingredients []Ingredient `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type Ingredient struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	RecipeID uint     `json:"recipe_id" gorm:"not null;index"`
	Name     string   `json:"name" gorm:"size:200;not null"`
	Amount   string   `json:"amount" gorm:"size:100"`
	Category Category `json:"category" gorm:"size:20;not null"`
}

type MealPlanWeek struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Label     string     `json:"label" gorm:"size:50;not null"`
	StartDate *time.Time `json:"start_date" gorm:"type:date"`
	Skipped   bool       `json:"skipped" gorm:"default:false"`
	Archived  bool       `json:"archived" gorm:"default:false"`
	CreatedAt time.Time  `json:"created_at"`

	Meals []PlannedMeal `json:"meals" gorm:"foreignKey:WeekID;constraint:OnDelete:CASCADE"`
}

type PlannedMeal struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	WeekID   uint   `json:"week_id" gorm:"not null;index"`
	RecipeID uint   `json:"recipe_id" gorm:"not null;index"`
	SlotName string `json:"slot_name" gorm:"size:100;not null"`
	Skipped  bool   `json:"skipped" gorm:"default:false"`

	Recipe Recipe `json:"recipe" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// Date truncates t to a calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date for optional values.
func DatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// NameKey is the comparison form used for case-insensitive recipe name uniqueness.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
