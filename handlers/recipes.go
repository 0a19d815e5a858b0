package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mealprep-backend/logging"
	"mealprep-backend/models"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const extraIngredientRows = 10

type RecipeHandler struct {
	Store    *store.Store
	Renderer PDFRenderer
	Logger   *zap.Logger
}

func NewRecipeHandler(s *store.Store, pdf PDFRenderer, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{Store: s, Renderer: pdf, Logger: logger}
}

type ingredientRow struct {
	Name     string
	Amount   string
	Category string
}

// blank reports an untouched extra row. Blank rows default to pantry.
func (r ingredientRow) blank() bool {
	return r.Name == "" && r.Amount == "" &&
		(r.Category == "" || r.Category == string(models.CategoryPantry))
}

type recipeForm struct {
	Name                 string   `form:"name" binding:"required,max=200"`
	CourseCount          int      `form:"course_count" binding:"required,min=1"`
	MealType             string   `form:"meal_type" binding:"required,oneof=lunch vegetarian seafood protein other"`
	SourceNote           string   `form:"source_note" binding:"max=200"`
	IngredientNames      []string `form:"ingredient_name"`
	IngredientAmounts    []string `form:"ingredient_amount"`
	IngredientCategories []string `form:"ingredient_category"`
}

var recipeFormFields = map[string]string{
	"Name":        "name",
	"CourseCount": "course_count",
	"MealType":    "meal_type",
	"SourceNote":  "source_note",
}

// rows zips the parallel ingredient columns back together.
func (f *recipeForm) rows() []ingredientRow {
	rows := make([]ingredientRow, 0, len(f.IngredientNames))
	for i, name := range f.IngredientNames {
		row := ingredientRow{Name: strings.TrimSpace(name)}
		if i < len(f.IngredientAmounts) {
			row.Amount = strings.TrimSpace(f.IngredientAmounts[i])
		}
		if i < len(f.IngredientCategories) {
			row.Category = f.IngredientCategories[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// clean trims input and checks what the binding tags cannot express.
func (f *recipeForm) clean() fieldErrors {
	errs := fieldErrors{}
	f.Name = strings.TrimSpace(f.Name)
	f.SourceNote = strings.TrimSpace(f.SourceNote)
	if f.Name == "" {
		errs["name"] = "This field is required."
	}

	for i, row := range f.rows() {
		if row.blank() {
			continue
		}
		if row.Name == "" {
			errs["ingredients"] = fmt.Sprintf("Ingredient %d: name is required.", i+1)
			break
		}
		if !models.Category(row.Category).Valid() {
			errs["ingredients"] = fmt.Sprintf("Ingredient %d: select a valid category.", i+1)
			break
		}
		if len([]rune(row.Name)) > 200 || len([]rune(row.Amount)) > 100 {
			errs["ingredients"] = fmt.Sprintf("Ingredient %d: name or amount is too long.", i+1)
			break
		}
	}
	return errs
}

func (f *recipeForm) recipe(id uint) *models.Recipe {
	recipe := &models.Recipe{
		ID:          id,
		Name:        f.Name,
		CourseCount: f.CourseCount,
		MealType:    models.MealType(f.MealType),
		SourceNote:  f.SourceNote,
	}
	for _, row := range f.rows() {
		if row.Name == "" {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{
			Name:     row.Name,
			Amount:   row.Amount,
			Category: models.Category(row.Category),
		})
	}
	return recipe
}

func formFromRecipe(recipe *models.Recipe) *recipeForm {
	f := &recipeForm{
		Name:        recipe.Name,
		CourseCount: recipe.CourseCount,
		MealType:    string(recipe.MealType),
		SourceNote:  recipe.SourceNote,
	}
	for _, ing := range recipe.Ingredients {
		f.IngredientNames = append(f.IngredientNames, ing.Name)
		f.IngredientAmounts = append(f.IngredientAmounts, ing.Amount)
		f.IngredientCategories = append(f.IngredientCategories, string(ing.Category))
	}
	return f
}

func (h *RecipeHandler) renderForm(c *gin.Context, status int, form *recipeForm, errs fieldErrors, recipeID uint) {
	title := "Build a Recipe"
	if recipeID != 0 {
		title = "Edit Recipe: " + form.Name
	}

	var rows []ingredientRow
	for _, row := range form.rows() {
		if !row.blank() {
			rows = append(rows, row)
		}
	}
	for i := 0; i < extraIngredientRows; i++ {
		rows = append(rows, ingredientRow{Category: string(models.CategoryPantry)})
	}

	c.HTML(status, "recipe_form.html", gin.H{
		"Title":      title,
		"Form":       form,
		"Rows":       rows,
		"Errors":     errs,
		"IsEdit":     recipeID != 0,
		"RecipeID":   recipeID,
		"MealTypes":  models.MealTypes,
		"Categories": models.Categories,
	})
}

// bind fills form from the request body and reports every validation problem.
func (h *RecipeHandler) bind(c *gin.Context, form *recipeForm) fieldErrors {
	if err := c.ShouldBind(form); err != nil {
		errs := bindErrors(err, recipeFormFields, "course_count")
		for k, v := range form.clean() {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
		return errs
	}
	return form.clean()
}

func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.Store.ListRecipes(c.Request.Context())
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	c.HTML(http.StatusOK, "recipe_list.html", gin.H{
		"Title":   "Recipes",
		"Recipes": recipes,
	})
}

func (h *RecipeHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Recipe")
		return
	}
	recipe, err := h.Store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		lookupError(c, h.Logger, err, "Recipe")
		return
	}
	c.HTML(http.StatusOK, "recipe_detail.html", gin.H{
		"Title":  recipe.Name,
		"Recipe": recipe,
	})
}

func (h *RecipeHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &recipeForm{MealType: string(models.MealTypeOther)}, fieldErrors{}, 0)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var form recipeForm
	if errs := h.bind(c, &form); len(errs) > 0 {
		h.renderForm(c, http.StatusOK, &form, errs, 0)
		return
	}

	recipe := form.recipe(0)
	if err := h.Store.CreateRecipe(c.Request.Context(), recipe); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			h.renderForm(c, http.StatusOK, &form, fieldErrors{"name": duplicateNameMessage}, 0)
			return
		}
		serverError(c, h.Logger, err)
		return
	}

	logging.FromContext(c, h.Logger).Info("recipe created",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("name", recipe.Name))
	redirect(c, "/recipes/%d/", recipe.ID)
}

const duplicateNameMessage = "A recipe with this name already exists. " +
	"Please choose a different name or edit the existing recipe instead."

func (h *RecipeHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Recipe")
		return
	}
	recipe, err := h.Store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		lookupError(c, h.Logger, err, "Recipe")
		return
	}
	h.renderForm(c, http.StatusOK, formFromRecipe(recipe), fieldErrors{}, recipe.ID)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Recipe")
		return
	}
	if _, err := h.Store.GetRecipe(c.Request.Context(), id); err != nil {
		lookupError(c, h.Logger, err, "Recipe")
		return
	}

	var form recipeForm
	if errs := h.bind(c, &form); len(errs) > 0 {
		h.renderForm(c, http.StatusOK, &form, errs, id)
		return
	}

	if err := h.Store.UpdateRecipe(c.Request.Context(), form.recipe(id)); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			h.renderForm(c, http.StatusOK, &form, fieldErrors{"name": duplicateNameMessage}, id)
		case errors.Is(err, store.ErrNotFound):
			notFound(c, "Recipe")
		default:
			serverError(c, h.Logger, err)
		}
		return
	}
	redirect(c, "/recipes/%d/", id)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Recipe")
		return
	}
	if err := h.Store.DeleteRecipe(c.Request.Context(), id); err != nil {
		lookupError(c, h.Logger, err, "Recipe")
		return
	}
	logging.FromContext(c, h.Logger).Info("recipe deleted", zap.Uint("recipe_id", id))
	redirect(c, "/recipes/")
}

func (h *RecipeHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Recipe")
		return
	}
	recipe, err := h.Store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		lookupError(c, h.Logger, err, "Recipe")
		return
	}

	data, err := h.Renderer.Recipe(recipe)
	if err != nil {
		logging.FromContext(c, h.Logger).Error("recipe pdf failed", zap.Uint("recipe_id", id), zap.Error(err))
		c.String(http.StatusInternalServerError, "Error generating PDF")
		return
	}
	sendPDF(c, fmt.Sprintf("recipe_%d.pdf", recipe.ID), data)
}
