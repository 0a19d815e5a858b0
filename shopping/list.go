// Package shopping turns planned meals into a categorized, deduplicated shopping list.
package shopping

import (
	"strings"

	"mealprep-backend/models"
)

// Separator joins a category key and a label in carried-forward item tokens.
const Separator = "|||"

// Bucket is one category of a shopping list.
type Bucket struct {
	Category models.Category
	Items    []string
}

func (b Bucket) Label() string {
	return b.Category.Label()
}

// List maps categories to display labels. The fixed categories are always
// present, in order, even when empty; other categories follow in first-seen order.
type List struct {
	buckets []Bucket
	index   map[models.Category]int
}

func NewList() *List {
	l := &List{index: make(map[models.Category]int, len(models.Categories))}
	for _, c := range models.Categories {
		l.bucket(c)
	}
	return l
}

func (l *List) bucket(c models.Category) *Bucket {
	if i, ok := l.index[c]; ok {
		return &l.buckets[i]
	}
	l.index[c] = len(l.buckets)
	l.buckets = append(l.buckets, Bucket{Category: c, Items: []string{}})
	return &l.buckets[len(l.buckets)-1]
}

// Add appends label to the category's bucket.
func (l *List) Add(c models.Category, label string) {
	b := l.bucket(c)
	b.Items = append(b.Items, label)
}

func (l *List) Buckets() []Bucket {
	return l.buckets
}

// Items returns the labels of one category, or nil if it was never seen.
func (l *List) Items(c models.Category) []string {
	if i, ok := l.index[c]; ok {
		return l.buckets[i].Items
	}
	return nil
}

func (l *List) Len() int {
	n := 0
	for _, b := range l.buckets {
		n += len(b.Items)
	}
	return n
}

// Label is "{amount} – {name}", or just the name when amount is empty.
func Label(name, amount string) string {
	name = strings.TrimSpace(name)
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return name
	}
	return amount + " – " + name
}

// Token encodes an item so it can round-trip through a form field.
func Token(c models.Category, label string) string {
	return string(c) + Separator + label
}

// ParseToken splits a carried-forward item. ok is false if the separator is missing.
func ParseToken(raw string) (models.Category, string, bool) {
	category, label, ok := strings.Cut(raw, Separator)
	if !ok {
		return "", "", false
	}
	return models.Category(category), label, true
}

type dedupKey struct {
	category models.Category
	name     string
	amount   string
}

// Aggregate collects the ingredients of every meal that should be bought for.
// Archived and skipped weeks, and skipped meals, contribute nothing. An ingredient
// with the same category, name and amount as an earlier one is dropped.
func Aggregate(weeks []models.MealPlanWeek) *List {
	list := NewList()
	seen := make(map[dedupKey]bool)

	for _, week := range weeks {
		if week.Archived || week.Skipped {
			continue
		}
		for _, meal := range week.Meals {
			if meal.Skipped {
				continue
			}
			for _, ing := range meal.Recipe.Ingredients {
				key := dedupKey{
					category: ing.Category,
					name:     strings.TrimSpace(ing.Name),
					amount:   strings.TrimSpace(ing.Amount),
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				list.Add(key.category, Label(key.name, key.amount))
			}
		}
	}
	return list
}

// FromTokens rebuilds a list from carried-forward items, keeping their order.
// Malformed items are dropped.
func FromTokens(raw []string) *List {
	list := NewList()
	for _, item := range raw {
		category, label, ok := ParseToken(item)
		if !ok {
			continue
		}
		list.Add(category, label)
	}
	return list
}

// Columns splits buckets into the two PDF columns: produce, protein and frozen
// on the left, everything else on the right.
func Columns(l *List) (left, right []Bucket) {
	leftSet := map[models.Category]bool{
		models.CategoryProduce: true,
		models.CategoryProtein: true,
		models.CategoryFrozen:  true,
	}
	for _, c := range []models.Category{models.CategoryProduce, models.CategoryProtein, models.CategoryFrozen} {
		left = append(left, Bucket{Category: c, Items: l.Items(c)})
	}
	for _, b := range l.Buckets() {
		if !leftSet[b.Category] {
			right = append(right, b)
		}
	}
	return left, right
}
