package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"mealprep-backend/handlers"
	"mealprep-backend/models"
	"mealprep-backend/pdfdoc"
	"mealprep-backend/shopping"
	"mealprep-backend/store"
	"mealprep-backend/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingPDF struct{}

func (failingPDF) Recipe(*models.Recipe) ([]byte, error) {
	return nil, errors.New("font missing")
}

func (failingPDF) ShoppingList([]models.MealPlanWeek, *shopping.List) ([]byte, error) {
	return nil, errors.New("font missing")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type testServer struct {
	store  *store.Store
	router *gin.Engine
}

func newServer(t *testing.T, pdf handlers.PDFRenderer) *testServer {
	t.Helper()
	s := storetest.Open(t)
	if pdf == nil {
		pdf = pdfdoc.New()
	}
	router, err := handlers.NewRouter(handlers.Deps{
		Store:       s,
		PDF:         pdf,
		Greeting:    "Hello, test!",
		RecencyDays: 30,
		Clock:       func() time.Time { return storetest.Day(2024, time.June, 1) },
	})
	require.NoError(t, err)
	return &testServer{store: s, router: router}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHome(t *testing.T) {
	ts := newServer(t, nil)

	w := ts.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello, test!")

	w = ts.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)

	w = ts.get("/no/such/page/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeCreate(t *testing.T) {
	ts := newServer(t, nil)
	ctx := context.Background()

	form := url.Values{
		"name":                {"Lentil Soup"},
		"course_count":        {"4"},
		"meal_type":           {"vegetarian"},
		"source_note":         {"Card box"},
		"ingredient_name":     {"Lentils", "", "Carrots"},
		"ingredient_amount":   {"1 cup", "", "3"},
		"ingredient_category": {"pantry", "pantry", "produce"},
	}
	w := ts.post("/recipes/new/", form)
	require.Equal(t, http.StatusFound, w.Code)

	recipes, err := ts.store.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "/recipes/"+itoa(recipes[0].ID)+"/", w.Header().Get("Location"))

	recipe, err := ts.store.GetRecipe(ctx, recipes[0].ID)
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "Lentils", recipe.Ingredients[0].Name)
	assert.Equal(t, models.CategoryProduce, recipe.Ingredients[1].Category)

	t.Run("DuplicateNameRerendersForm", func(t *testing.T) {
		form.Set("name", "lentil SOUP")
		w := ts.post("/recipes/new/", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "A recipe with this name already exists.")

		recipes, err := ts.store.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 1)
	})

	t.Run("IngredientAmountWithoutName", func(t *testing.T) {
		w := ts.post("/recipes/new/", url.Values{
			"name":                {"Salted Oats"},
			"course_count":        {"8"},
			"meal_type":           {"lunch"},
			"ingredient_name":     {"", "Salt"},
			"ingredient_amount":   {"2 cups", ""},
			"ingredient_category": {"pantry", "pantry"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ingredient 1: name is required.")
		assert.Contains(t, w.Body.String(), `value="2 cups"`)

		recipes, err := ts.store.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 1)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		w := ts.post("/recipes/new/", url.Values{
			"name":         {"   "},
			"course_count": {"0"},
			"meal_type":    {"brunch"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required.")

		recipes, err := ts.store.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 1)
	})
}

func TestRecipeEditAndDelete(t *testing.T) {
	ts := newServer(t, nil)
	ctx := context.Background()
	chili := storetest.Recipe(t, ts.store, "Chili", models.MealTypeProtein, 4, nil,
		models.Ingredient{Name: "Beans", Amount: "1 can", Category: models.CategoryPantry})
	storetest.Recipe(t, ts.store, "Tacos", models.MealTypeProtein, 4, nil)

	w := ts.get("/recipes/" + itoa(chili.ID) + "/edit/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Beans")

	w = ts.post("/recipes/"+itoa(chili.ID)+"/edit/", url.Values{
		"name":         {"TACOS"},
		"course_count": {"4"},
		"meal_type":    {"protein"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A recipe with this name already exists.")

	w = ts.post("/recipes/"+itoa(chili.ID)+"/edit/", url.Values{
		"name":                {"Turkey Chili"},
		"course_count":        {"6"},
		"meal_type":           {"protein"},
		"ingredient_name":     {"Turkey"},
		"ingredient_amount":   {"1 lb"},
		"ingredient_category": {"protein"},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	got, err := ts.store.GetRecipe(ctx, chili.ID)
	require.NoError(t, err)
	assert.Equal(t, "Turkey Chili", got.Name)
	assert.Equal(t, 6, got.CourseCount)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Turkey", got.Ingredients[0].Name)

	w = ts.post("/recipes/"+itoa(chili.ID)+"/delete/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/", w.Header().Get("Location"))

	w = ts.get("/recipes/" + itoa(chili.ID) + "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipePDF(t *testing.T) {
	t.Run("Attachment", func(t *testing.T) {
		ts := newServer(t, nil)
		recipe := storetest.Recipe(t, ts.store, "Oats", models.MealTypeLunch, 8, nil,
			models.Ingredient{Name: "Oats", Amount: "2 cups", Category: models.CategoryPantry})

		w := ts.get("/recipes/" + itoa(recipe.ID) + "/pdf/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="recipe_`+itoa(recipe.ID)+`.pdf"`)
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	})

	t.Run("RenderFailure", func(t *testing.T) {
		ts := newServer(t, failingPDF{})
		recipe := storetest.Recipe(t, ts.store, "Oats", models.MealTypeLunch, 8, nil)

		w := ts.get("/recipes/" + itoa(recipe.ID) + "/pdf/")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error generating PDF", w.Body.String())
	})

	t.Run("UnknownRecipe", func(t *testing.T) {
		ts := newServer(t, nil)
		w := ts.get("/recipes/404/pdf/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMealPlanLifecycle(t *testing.T) {
	ts := newServer(t, nil)
	ctx := context.Background()
	storetest.Recipe(t, ts.store, "Oats", models.MealTypeLunch, 8, nil)
	storetest.Recipe(t, ts.store, "Lentil Soup", models.MealTypeVegetarian, 4, nil)

	w := ts.post("/mealplans/new/", url.Values{"label": {"Week 1"}, "start_date": {"2024-06-03"}})
	require.Equal(t, http.StatusFound, w.Code)

	weeks, err := ts.store.ListWeeks(ctx, false)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	week := weeks[0]
	assert.Equal(t, "/mealplans/"+itoa(week.ID)+"/", w.Header().Get("Location"))

	t.Run("Autobuild", func(t *testing.T) {
		w := ts.post("/mealplans/"+itoa(week.ID)+"/autobuild/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/mealplans/"+itoa(week.ID)+"/", w.Header().Get("Location"))

		got, err := ts.store.GetWeek(ctx, week.ID)
		require.NoError(t, err)
		require.Len(t, got.Meals, 2)
		assert.Equal(t, "Lunch", got.Meals[0].SlotName)
		assert.Equal(t, "Vegetarian Dinner", got.Meals[1].SlotName)

		w = ts.get("/mealplans/" + itoa(week.ID) + "/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Lentil Soup")

		w = ts.get("/mealplans/" + itoa(week.ID) + "/autobuild/")
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("AutobuildUnknownWeek", func(t *testing.T) {
		w := ts.post("/mealplans/999/autobuild/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ArchiveAndRestore", func(t *testing.T) {
		w := ts.post("/mealplans/"+itoa(week.ID)+"/archive/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		archived, err := ts.store.ListWeeks(ctx, true)
		require.NoError(t, err)
		assert.Len(t, archived, 1)

		w = ts.post("/mealplans/"+itoa(week.ID)+"/unarchive/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		archived, err = ts.store.ListWeeks(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, archived)
	})

	t.Run("InvalidForm", func(t *testing.T) {
		w := ts.post("/mealplans/new/", url.Values{"label": {""}, "start_date": {"June"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Enter a valid date.")
	})

	t.Run("Delete", func(t *testing.T) {
		w := ts.post("/mealplans/"+itoa(week.ID)+"/delete/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		_, err := ts.store.GetWeek(ctx, week.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMeals(t *testing.T) {
	ts := newServer(t, nil)
	ctx := context.Background()
	oats := storetest.Recipe(t, ts.store, "Oats", models.MealTypeLunch, 8, nil)
	soup := storetest.Recipe(t, ts.store, "Soup", models.MealTypeVegetarian, 4, nil)
	week := storetest.Week(t, ts.store, models.MealPlanWeek{Label: "Week 1"})
	weekURL := "/mealplans/" + itoa(week.ID) + "/"

	w := ts.get(weekURL + "meals/add/?slot_name=Monday+Dinner")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Monday Dinner"`)

	w = ts.post(weekURL+"meals/add/", url.Values{"slot_name": {"Monday Dinner"}, "recipe_id": {"9999"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Select a valid choice.")

	w = ts.post(weekURL+"meals/add/", url.Values{"slot_name": {"Monday Dinner"}, "recipe_id": {itoa(oats.ID)}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, weekURL, w.Header().Get("Location"))

	got, err := ts.store.GetWeek(ctx, week.ID)
	require.NoError(t, err)
	require.Len(t, got.Meals, 1)
	meal := got.Meals[0]

	t.Run("Edit", func(t *testing.T) {
		w := ts.post("/meals/"+itoa(meal.ID)+"/edit/", url.Values{"slot_name": {"Tuesday"}, "recipe_id": {itoa(soup.ID)}})
		assert.Equal(t, http.StatusFound, w.Code)

		got, err := ts.store.GetMeal(ctx, meal.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tuesday", got.SlotName)
		assert.Equal(t, soup.ID, got.RecipeID)
	})

	t.Run("ToggleSkip", func(t *testing.T) {
		w := ts.post("/meals/"+itoa(meal.ID)+"/toggle-skip/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, weekURL, w.Header().Get("Location"))

		got, err := ts.store.GetMeal(ctx, meal.ID)
		require.NoError(t, err)
		assert.True(t, got.Skipped)

		ts.post("/meals/"+itoa(meal.ID)+"/toggle-skip/", nil)
		got, err = ts.store.GetMeal(ctx, meal.ID)
		require.NoError(t, err)
		assert.False(t, got.Skipped)
	})

	t.Run("ToggleUnknownMeal", func(t *testing.T) {
		w := ts.post("/meals/9999/toggle-skip/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := ts.post("/meals/"+itoa(meal.ID)+"/delete/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, weekURL, w.Header().Get("Location"))

		_, err := ts.store.GetMeal(ctx, meal.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestShoppingList(t *testing.T) {
	ts := newServer(t, nil)
	soup := storetest.Recipe(t, ts.store, "Soup", models.MealTypeVegetarian, 4, nil,
		models.Ingredient{Name: "Carrots", Amount: "3", Category: models.CategoryProduce},
		models.Ingredient{Name: "Stock", Amount: "1 qt", Category: models.CategoryPantry})
	week := storetest.Week(t, ts.store, models.MealPlanWeek{Label: "Week 1"})
	storetest.Meal(t, ts.store, week.ID, soup.ID, "Dinner", false)

	t.Run("Picker", func(t *testing.T) {
		w := ts.get("/shopping-list/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Week 1")
	})

	t.Run("Build", func(t *testing.T) {
		w := ts.post("/shopping-list/", url.Values{"weeks": {itoa(week.ID)}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "3 – Carrots")
		assert.Contains(t, w.Body.String(), "1 qt – Stock")
	})

	t.Run("BuildWithoutWeeksShowsNoList", func(t *testing.T) {
		w := ts.post("/shopping-list/", url.Values{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Week 1")
		assert.NotContains(t, w.Body.String(), "Download PDF")
		assert.NotContains(t, w.Body.String(), "Nothing needed.")
	})

	t.Run("EmptyExportRedirects", func(t *testing.T) {
		w := ts.post("/shopping-list/pdf/", url.Values{})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/shopping-list/", w.Header().Get("Location"))

		w = ts.get("/shopping-list/pdf/")
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("CarriedForwardExport", func(t *testing.T) {
		w := ts.post("/shopping-list/pdf/", url.Values{
			"items": {"produce|||3 – Carrots", "bogus"},
			"weeks": {itoa(week.ID)},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="shopping_list.pdf"`)
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	})

	t.Run("WeeksOnlyExport", func(t *testing.T) {
		w := ts.post("/shopping-list/pdf/", url.Values{"weeks": {itoa(week.ID)}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	})
}

func TestShoppingListPDFFailure(t *testing.T) {
	ts := newServer(t, failingPDF{})
	w := ts.post("/shopping-list/pdf/", url.Values{"items": {"produce|||Lettuce"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error generating PDF", w.Body.String())
}
