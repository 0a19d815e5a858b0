package handlers

import (
	"errors"
	"net/http"

	"mealprep-backend/logging"
	"mealprep-backend/models"
	"mealprep-backend/shopping"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ShoppingHandler struct {
	Store    *store.Store
	Service  *shopping.Service
	Renderer PDFRenderer
	Logger   *zap.Logger
}

func NewShoppingHandler(s *store.Store, pdf PDFRenderer, logger *zap.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		Store:    s,
		Service:  shopping.NewService(s),
		Renderer: pdf,
		Logger:   logger,
	}
}

func (h *ShoppingHandler) render(c *gin.Context, selected []uint, list *shopping.List) {
	weeks, err := h.Store.SelectableWeeks(c.Request.Context())
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	data := gin.H{
		"Title":           "Shopping list",
		"Weeks":           weeks,
		"SelectedWeekIDs": selected,
	}
	if list != nil {
		data["List"] = list
	}
	c.HTML(http.StatusOK, "shopping_list.html", data)
}

func (h *ShoppingHandler) Picker(c *gin.Context) {
	h.render(c, []uint{}, nil)
}

func (h *ShoppingHandler) Build(c *gin.Context) {
	weekIDs := parseIDs(c.PostFormArray("weeks"))
	list, err := h.Service.ForWeeks(c.Request.Context(), weekIDs)
	if err != nil {
		serverError(c, h.Logger, err)
		return
	}
	h.render(c, weekIDs, list)
}

// PDF exports the reviewed items, or the full list for the posted weeks when
// no items were carried forward.
func (h *ShoppingHandler) PDF(c *gin.Context) {
	ctx := c.Request.Context()
	items := c.PostFormArray("items")
	weekIDs := parseIDs(c.PostFormArray("weeks"))

	list, err := h.Service.ForExport(ctx, items, weekIDs)
	if err != nil {
		if errors.Is(err, shopping.ErrNoSelection) {
			redirect(c, "/shopping-list/")
			return
		}
		serverError(c, h.Logger, err)
		return
	}

	var weeks []models.MealPlanWeek
	if len(weekIDs) > 0 {
		if weeks, err = h.Store.WeeksByIDs(ctx, weekIDs); err != nil {
			serverError(c, h.Logger, err)
			return
		}
	}

	data, err := h.Renderer.ShoppingList(weeks, list)
	if err != nil {
		logging.FromContext(c, h.Logger).Error("shopping list pdf failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error generating PDF")
		return
	}
	logging.FromContext(c, h.Logger).Info("shopping list exported",
		zap.Int("items", list.Len()),
		zap.Bool("carried_forward", len(items) > 0))
	sendPDF(c, "shopping_list.pdf", data)
}

func (h *ShoppingHandler) PDFRedirect(c *gin.Context) {
	redirect(c, "/shopping-list/")
}
