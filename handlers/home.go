package handlers

import (
	"net/http"

	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	Store    *store.Store
	Greeting string
}

func NewHomeHandler(s *store.Store, greeting string) *HomeHandler {
	return &HomeHandler{Store: s, Greeting: greeting}
}

func (h *HomeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":    "Meal prep",
		"Greeting": h.Greeting,
	})
}

// Health reports whether the database answers a ping.
func (h *HomeHandler) Health(c *gin.Context) {
	sqlDB, err := h.Store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
