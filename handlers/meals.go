package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mealprep-backend/models"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MealHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

func NewMealHandler(s *store.Store, logger *zap.Logger) *MealHandler {
	return &MealHandler{Store: s, Logger: logger}
}

type mealForm struct {
	SlotName string `form:"slot_name" binding:"required,max=100"`
	RecipeID uint   `form:"recipe_id" binding:"required"`
}

var mealFormFields = map[string]string{
	"SlotName": "slot_name",
	"RecipeID": "recipe_id",
}

func (h *MealHandler) renderForm(c *gin.Context, title string, week *models.MealPlanWeek, form *mealForm, errs fieldErrors) {
	recipes, err := h.Store.ListRecipes(c.Request.Context())
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	c.HTML(http.StatusOK, "planned_meal_form.html", gin.H{
		"Title":   title,
		"Week":    week,
		"Form":    form,
		"Errors":  errs,
		"Recipes": recipes,
	})
}

// bind validates the form and checks the chosen recipe exists.
func (h *MealHandler) bind(c *gin.Context, form *mealForm) (fieldErrors, error) {
	errs := fieldErrors{}
	if err := c.ShouldBind(form); err != nil {
		errs = bindErrors(err, mealFormFields, "recipe_id")
	}
	form.SlotName = strings.TrimSpace(form.SlotName)
	if form.SlotName == "" {
		errs["slot_name"] = "This field is required."
	}
	if _, failed := errs["recipe_id"]; failed || form.RecipeID == 0 {
		errs["recipe_id"] = "Select a valid choice."
		return errs, nil
	}

	if _, err := h.Store.GetRecipe(c.Request.Context(), form.RecipeID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		errs["recipe_id"] = "Select a valid choice. That recipe is not one of the available choices."
	}
	return errs, nil
}

func (h *MealHandler) New(c *gin.Context) {
	weekID, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	week, err := h.Store.GetWeek(c.Request.Context(), weekID)
	if err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}
	form := &mealForm{SlotName: c.Query("slot_name")}
	h.renderForm(c, "Add a meal", week, form, fieldErrors{})
}

func (h *MealHandler) Create(c *gin.Context) {
	weekID, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	week, err := h.Store.GetWeek(c.Request.Context(), weekID)
	if err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}

	var form mealForm
	errs, err := h.bind(c, &form)
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	if len(errs) > 0 {
		h.renderForm(c, "Add a meal", week, &form, errs)
		return
	}

	meal := &models.PlannedMeal{WeekID: week.ID, RecipeID: form.RecipeID, SlotName: form.SlotName}
	if err := h.Store.CreateMeal(c.Request.Context(), meal); err != nil {
		serverError(c, h.Logger, err)
		return
	}
	redirect(c, "/mealplans/%d/", week.ID)
}

func (h *MealHandler) Edit(c *gin.Context) {
	meal, week, ok := h.load(c)
	if !ok {
		return
	}
	form := &mealForm{SlotName: meal.SlotName, RecipeID: meal.RecipeID}
	h.renderForm(c, "Edit meal", week, form, fieldErrors{})
}

func (h *MealHandler) Update(c *gin.Context) {
	meal, week, ok := h.load(c)
	if !ok {
		return
	}

	var form mealForm
	errs, err := h.bind(c, &form)
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	if len(errs) > 0 {
		h.renderForm(c, "Edit meal", week, &form, errs)
		return
	}

	meal.SlotName = form.SlotName
	meal.RecipeID = form.RecipeID
	if err := h.Store.UpdateMeal(c.Request.Context(), meal); err != nil {
		lookupError(c, h.Logger, err, "Meal")
		return
	}
	redirect(c, "/mealplans/%d/", week.ID)
}

func (h *MealHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Meal")
		return
	}
	ctx := c.Request.Context()
	meal, err := h.Store.GetMeal(ctx, id)
	if err != nil {
		lookupError(c, h.Logger, err, "Meal")
		return
	}
	if err := h.Store.DeleteMeal(ctx, id); err != nil {
		lookupError(c, h.Logger, err, "Meal")
		return
	}
	redirect(c, "/mealplans/%d/", meal.WeekID)
}

func (h *MealHandler) ToggleSkip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Meal")
		return
	}
	meal, err := h.Store.ToggleMealSkip(c.Request.Context(), id)
	if err != nil {
		lookupError(c, h.Logger, err, "Meal")
		return
	}
	redirect(c, "/mealplans/%d/", meal.WeekID)
}

// load resolves the :id meal and the week it belongs to, rendering 404 when
// either is missing.
func (h *MealHandler) load(c *gin.Context) (*models.PlannedMeal, *models.MealPlanWeek, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Meal")
		return nil, nil, false
	}
	ctx := c.Request.Context()
	meal, err := h.Store.GetMeal(ctx, id)
	if err != nil {
		lookupError(c, h.Logger, err, "Meal")
		return nil, nil, false
	}
	week, err := h.Store.GetWeek(ctx, meal.WeekID)
	if err != nil {
		lookupError(c, h.Logger, err, "Week")
		return nil, nil, false
	}
	return meal, week, true
}
