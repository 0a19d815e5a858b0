package handlers

import (
	"fmt"
	"time"

	"mealprep-backend/logging"
	"mealprep-backend/store"
	"mealprep-backend/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are what the router needs to build every handler.
type Deps struct {
	Store       *store.Store
	PDF         PDFRenderer
	Logger      *zap.Logger
	Greeting    string
	RecencyDays int
	Clock       func() time.Time
}

func NewRouter(deps Deps) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	homeHandler := NewHomeHandler(deps.Store, deps.Greeting)
	recipeHandler := NewRecipeHandler(deps.Store, deps.PDF, logger)
	mealPlanHandler := NewMealPlanHandler(deps.Store, logger, deps.RecencyDays, deps.Clock)
	mealHandler := NewMealHandler(deps.Store, logger)
	shoppingHandler := NewShoppingHandler(deps.Store, deps.PDF, logger)

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))
	router.SetHTMLTemplate(tmpl)
	router.NoRoute(func(c *gin.Context) {
		notFound(c, "Page")
	})

	router.GET("/", homeHandler.Index)
	router.GET("/healthz", homeHandler.Health)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", recipeHandler.List)
		recipes.GET("/new/", recipeHandler.New)
		recipes.POST("/new/", recipeHandler.Create)
		recipes.GET("/:id/", recipeHandler.Detail)
		recipes.GET("/:id/edit/", recipeHandler.Edit)
		recipes.POST("/:id/edit/", recipeHandler.Update)
		recipes.POST("/:id/delete/", recipeHandler.Delete)
		recipes.GET("/:id/pdf/", recipeHandler.PDF)
	}

	mealplans := router.Group("/mealplans")
	{
		mealplans.GET("/", mealPlanHandler.List)
		mealplans.GET("/new/", mealPlanHandler.New)
		mealplans.POST("/new/", mealPlanHandler.Create)
		mealplans.GET("/:id/", mealPlanHandler.Detail)
		mealplans.GET("/:id/autobuild/", mealPlanHandler.ShowWeek)
		mealplans.POST("/:id/autobuild/", mealPlanHandler.Autobuild)
		mealplans.POST("/:id/archive/", mealPlanHandler.Archive)
		mealplans.POST("/:id/unarchive/", mealPlanHandler.Unarchive)
		mealplans.POST("/:id/delete/", mealPlanHandler.Delete)
		mealplans.GET("/:id/meals/add/", mealHandler.New)
		mealplans.POST("/:id/meals/add/", mealHandler.Create)
	}

	meals := router.Group("/meals")
	{
		meals.GET("/:id/edit/", mealHandler.Edit)
		meals.POST("/:id/edit/", mealHandler.Update)
		meals.POST("/:id/delete/", mealHandler.Delete)
		meals.POST("/:id/toggle-skip/", mealHandler.ToggleSkip)
	}

	router.GET("/shopping-list/", shoppingHandler.Picker)
	router.POST("/shopping-list/", shoppingHandler.Build)
	router.GET("/shopping-list/pdf/", shoppingHandler.PDFRedirect)
	router.POST("/shopping-list/pdf/", shoppingHandler.PDF)

	return router, nil
}
