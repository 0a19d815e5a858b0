package handlers

import (
	"net/http"
	"strings"
	"time"

	"mealprep-backend/logging"
	"mealprep-backend/models"
	"mealprep-backend/planner"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MealPlanHandler struct {
	Store       *store.Store
	Logger      *zap.Logger
	RecencyDays int
	Clock       func() time.Time
}

func NewMealPlanHandler(s *store.Store, logger *zap.Logger, recencyDays int, clock func() time.Time) *MealPlanHandler {
	if clock == nil {
		clock = time.Now
	}
	if recencyDays <= 0 {
		recencyDays = planner.DefaultRecencyDays
	}
	return &MealPlanHandler{Store: s, Logger: logger, RecencyDays: recencyDays, Clock: clock}
}

type weekForm struct {
	Label     string `form:"label" binding:"required,max=50"`
	StartDate string `form:"start_date"`
	Skipped   bool   `form:"skipped"`
}

var weekFormFields = map[string]string{
	"Label":     "label",
	"StartDate": "start_date",
	"Skipped":   "skipped",
}

func (h *MealPlanHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	active, err := h.Store.ListWeeks(ctx, false)
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	archived, err := h.Store.ListWeeks(ctx, true)
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	c.HTML(http.StatusOK, "mealplan_week_list.html", gin.H{
		"Title":         "Meal plans",
		"Weeks":         active,
		"ArchivedWeeks": archived,
	})
}

func (h *MealPlanHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "mealplan_week_form.html", gin.H{
		"Title":  "New week",
		"Form":   &weekForm{},
		"Errors": fieldErrors{},
	})
}

func (h *MealPlanHandler) Create(c *gin.Context) {
	var form weekForm
	errs := fieldErrors{}
	if err := c.ShouldBind(&form); err != nil {
		errs = bindErrors(err, weekFormFields, "")
	}
	form.Label = strings.TrimSpace(form.Label)
	if form.Label == "" {
		errs["label"] = "This field is required."
	}

	week := &models.MealPlanWeek{Label: form.Label, Skipped: form.Skipped}
	if raw := strings.TrimSpace(form.StartDate); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errs["start_date"] = "Enter a valid date."
		} else {
			week.StartDate = &start
		}
	}

	if len(errs) > 0 {
		c.HTML(http.StatusOK, "mealplan_week_form.html", gin.H{
			"Title":  "New week",
			"Form":   &form,
			"Errors": errs,
		})
		return
	}

	if err := h.Store.CreateWeek(c.Request.Context(), week); err != nil {
		serverError(c, h.Logger, err)
		return
	}
	redirect(c, "/mealplans/%d/", week.ID)
}

func (h *MealPlanHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	week, err := h.Store.GetWeek(c.Request.Context(), id)
	if err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}
	c.HTML(http.StatusOK, "mealplan_week_detail.html", gin.H{
		"Title": week.Label,
		"Week":  week,
		"Meals": week.Meals,
	})
}

// ShowWeek sends stray GETs of action URLs back to the week page.
func (h *MealPlanHandler) ShowWeek(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	redirect(c, "/mealplans/%d/", id)
}

// Autobuild fills the week's slots and always lands back on the week page.
// Failures are logged; the page shows whatever state the database holds.
func (h *MealPlanHandler) Autobuild(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	ctx := c.Request.Context()
	week, err := h.Store.GetWeek(ctx, id)
	if err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}

	logger := logging.FromContext(c, h.Logger)
	var result *planner.Result
	err = h.Store.Transaction(ctx, func(tx *store.Store) error {
		builder := planner.NewBuilder(tx,
			planner.WithRecencyDays(h.RecencyDays),
			planner.WithClock(h.Clock),
			planner.WithLogger(logger))
		var err error
		result, err = builder.Build(ctx, week)
		return err
	})
	if err != nil {
		logger.Error("autobuild failed", zap.Uint("week_id", id), zap.Error(err))
	} else {
		logger.Info("autobuild finished",
			zap.Uint("week_id", id),
			zap.Bool("skipped", result.Skipped),
			zap.Int("meals", len(result.Meals)),
			zap.Strings("unfilled", result.Unfilled))
	}
	redirect(c, "/mealplans/%d/", id)
}

func (h *MealPlanHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

func (h *MealPlanHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *MealPlanHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	if err := h.Store.SetArchived(c.Request.Context(), id, archived); err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}
	redirect(c, "/mealplans/")
}

func (h *MealPlanHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c, "Week")
		return
	}
	if err := h.Store.DeleteWeek(c.Request.Context(), id); err != nil {
		lookupError(c, h.Logger, err, "Week")
		return
	}
	logging.FromContext(c, h.Logger).Info("week deleted", zap.Uint("week_id", id))
	redirect(c, "/mealplans/")
}
