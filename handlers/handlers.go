package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"mealprep-backend/logging"
	"mealprep-backend/models"
	"mealprep-backend/shopping"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PDFRenderer produces the downloadable documents.
type PDFRenderer interface {
	Recipe(recipe *models.Recipe) ([]byte, error)
	ShoppingList(weeks []models.MealPlanWeek, list *shopping.List) ([]byte, error)
}

type fieldErrors map[string]string

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *gin.Context, what string) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"Title":   "Not found",
		"Message": what + " not found.",
	})
}

func serverError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)
	logging.FromContext(c, logger).Error("request failed", zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "The request could not be completed. Please try again.",
	})
}

// lookupError renders 404 for missing records and 500 for everything else.
func lookupError(c *gin.Context, logger *zap.Logger, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, what)
		return
	}
	serverError(c, logger, err)
}

func redirect(c *gin.Context, format string, args ...interface{}) {
	c.Redirect(http.StatusFound, fmt.Sprintf(format, args...))
}

func sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// bindErrors turns a gin binding error into per-field messages. fields maps
// struct field names to form keys; numeric names the form key of an integer
// field whose raw value failed to parse.
func bindErrors(err error, fields map[string]string, numeric string) fieldErrors {
	errs := fieldErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			key, ok := fields[fe.Field()]
			if !ok {
				key = "form"
			}
			errs[key] = fieldMessage(fe)
		}
		return errs
	}

	var numErr *strconv.NumError
	if numeric != "" && errors.As(err, &numErr) {
		errs[numeric] = "Enter a whole number."
		return errs
	}

	errs["form"] = "Please correct the errors below."
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return "Select a valid choice."
	default:
		return "Enter a valid value."
	}
}

// parseIDs keeps the positive integers among raw form values.
func parseIDs(raw []string) []uint {
	ids := make([]uint, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
