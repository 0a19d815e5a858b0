// Package pdfdoc renders recipes and shopping lists as printable PDF documents.
package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	"mealprep-backend/models"
	"mealprep-backend/shopping"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	margin     = 15.0
	lineHeight = 6.0
	boxSize    = 3.2
)

type Renderer struct {
	Creator string
}

func New() *Renderer {
	return &Renderer{Creator: "mealprep"}
}

func (r *Renderer) newDocument(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator(r.Creator, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Recipe renders a single recipe with its ingredient list.
func (r *Renderer) Recipe(recipe *models.Recipe) ([]byte, error) {
	pdf, tr := r.newDocument(recipe.Name)
	pdf.SetAutoPageBreak(true, margin)
	width, _ := pdf.GetPageSize()
	contentWidth := width - 2*margin

	pdf.SetFont(fontFamily, "B", 18)
	pdf.MultiCell(contentWidth, 9, tr(recipe.Name), "", "L", false)

	meta := []string{recipe.MealType.Label(), fmt.Sprintf("%d courses", recipe.CourseCount)}
	if recipe.SourceNote != "" {
		meta = append(meta, recipe.SourceNote)
	}
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(contentWidth, 5, tr(strings.Join(meta, " · ")), "", "L", false)
	if recipe.LastUsed != nil {
		pdf.CellFormat(contentWidth, 5, "Last used "+recipe.LastUsed.Format("Jan 2, 2006"), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(contentWidth, 8, "Ingredients", "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(recipe.Ingredients) == 0 {
		pdf.SetFont(fontFamily, "I", 11)
		pdf.CellFormat(contentWidth, lineHeight, "No ingredients recorded.", "", 1, "L", false, 0, "")
		return output(pdf)
	}

	for _, ing := range recipe.Ingredients {
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(contentWidth*0.75, lineHeight, tr(shopping.Label(ing.Name, ing.Amount)), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentWidth*0.25, lineHeight, ing.Category.Label(), "", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	return output(pdf)
}

// ShoppingList renders the list in two columns with a tick box per item.
func (r *Renderer) ShoppingList(weeks []models.MealPlanWeek, list *shopping.List) ([]byte, error) {
	pdf, tr := r.newDocument("Shopping List")
	pdf.SetAutoPageBreak(false, margin)
	width, _ := pdf.GetPageSize()
	contentWidth := width - 2*margin

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(contentWidth, 9, "Shopping List", "", 1, "L", false, 0, "")
	if len(weeks) > 0 {
		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(contentWidth, 5, tr(weekSummary(weeks)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	left, right := shopping.Columns(list)
	colWidth := (contentWidth - 8) / 2
	top := pdf.GetY()

	c := &column{pdf: pdf, tr: tr, x: margin, width: colWidth, top: top}
	c.render(left)

	pdf.SetPage(1)
	c = &column{pdf: pdf, tr: tr, x: margin + colWidth + 8, width: colWidth, top: top}
	c.render(right)

	pdf.SetPage(pdf.PageCount())
	return output(pdf)
}

func weekSummary(weeks []models.MealPlanWeek) string {
	labels := make([]string, 0, len(weeks))
	for _, w := range weeks {
		label := w.Label
		if w.StartDate != nil {
			label += " (" + w.StartDate.Format("Jan 2") + ")"
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}

type column struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	x     float64
	width float64
	top   float64
	y     float64
}

func (c *column) render(buckets []shopping.Bucket) {
	c.y = c.top
	for _, b := range buckets {
		c.ensure(lineHeight * 2)
		c.pdf.SetFont(fontFamily, "B", 12)
		c.pdf.SetXY(c.x, c.y)
		c.pdf.CellFormat(c.width, 7, c.tr(b.Label()), "B", 0, "L", false, 0, "")
		c.y += 8

		c.pdf.SetFont(fontFamily, "", 10)
		if len(b.Items) == 0 {
			c.pdf.SetTextColor(150, 150, 150)
			c.pdf.SetXY(c.x, c.y)
			c.pdf.CellFormat(c.width, lineHeight, "Nothing needed", "", 0, "L", false, 0, "")
			c.pdf.SetTextColor(0, 0, 0)
			c.y += lineHeight
		}
		for _, item := range b.Items {
			c.ensure(lineHeight)
			c.pdf.Rect(c.x, c.y+(lineHeight-boxSize)/2, boxSize, boxSize, "D")
			c.pdf.SetXY(c.x+boxSize+2, c.y)
			c.pdf.CellFormat(c.width-boxSize-2, lineHeight, c.tr(item), "", 0, "L", false, 0, "")
			c.y += lineHeight
		}
		c.y += 4
	}
}

// ensure moves to the next page when fewer than h millimetres remain.
func (c *column) ensure(h float64) {
	_, pageHeight := c.pdf.GetPageSize()
	if c.y+h <= pageHeight-margin {
		return
	}
	if c.pdf.PageNo() < c.pdf.PageCount() {
		c.pdf.SetPage(c.pdf.PageNo() + 1)
	} else {
		c.pdf.AddPage()
	}
	c.y = margin
}
