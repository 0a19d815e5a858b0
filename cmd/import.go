package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mealprep-backend/models"
	"mealprep-backend/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import FILE.yaml",
	Short: "Load recipes from a YAML catalog, skipping names that already exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

type catalogFile struct {
	Recipes []catalogRecipe `yaml:"recipes"`
}

type catalogRecipe struct {
	Name        string              `yaml:"name"`
	CourseCount int                 `yaml:"course_count"`
	MealType    string              `yaml:"meal_type"`
	SourceNote  string              `yaml:"source_note"`
	Ingredients []catalogIngredient `yaml:"ingredients"`
}

type catalogIngredient struct {
	Name     string `yaml:"name"`
	Amount   string `yaml:"amount"`
	Category string `yaml:"category"`
}

// parseCatalog decodes and validates a recipe catalog. Missing meal types
// default to other and missing categories to pantry.
func parseCatalog(r io.Reader) ([]models.Recipe, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(file.Recipes))
	for i, cr := range file.Recipes {
		name := strings.TrimSpace(cr.Name)
		if name == "" {
			return nil, fmt.Errorf("recipe %d: name is required", i+1)
		}
		if cr.CourseCount < 1 {
			return nil, fmt.Errorf("recipe %q: course_count must be at least 1", name)
		}
		mealType := models.MealType(strings.TrimSpace(cr.MealType))
		if mealType == "" {
			mealType = models.MealTypeOther
		}
		if !mealType.Valid() {
			return nil, fmt.Errorf("recipe %q: unknown meal_type %q", name, cr.MealType)
		}

		recipe := models.Recipe{
			Name:        name,
			CourseCount: cr.CourseCount,
			MealType:    mealType,
			SourceNote:  strings.TrimSpace(cr.SourceNote),
		}
		for _, ci := range cr.Ingredients {
			ingName := strings.TrimSpace(ci.Name)
			if ingName == "" {
				continue
			}
			category := models.Category(strings.TrimSpace(ci.Category))
			if category == "" {
				category = models.CategoryPantry
			}
			if !category.Valid() {
				return nil, fmt.Errorf("recipe %q: ingredient %q has unknown category %q", name, ingName, ci.Category)
			}
			recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{
				Name:     ingName,
				Amount:   strings.TrimSpace(ci.Amount),
				Category: category,
			})
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recipes, err := parseCatalog(f)
	if err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := store.Migrate(e.db); err != nil {
		return err
	}
	created, skipped, err := importRecipes(cmd, store.New(e.db), recipes)
	if err != nil {
		return err
	}
	e.logger.Info("catalog imported",
		zap.String("file", args[0]),
		zap.Int("created", created),
		zap.Int("skipped", skipped))
	return nil
}

func importRecipes(cmd *cobra.Command, s *store.Store, recipes []models.Recipe) (created, skipped int, err error) {
	out := cmd.OutOrStdout()
	for i := range recipes {
		ok, err := s.ImportRecipe(cmd.Context(), &recipes[i])
		if err != nil {
			return created, skipped, err
		}
		if ok {
			created++
			continue
		}
		skipped++
		fmt.Fprintf(out, "skipped %q: a recipe with this name already exists\n", recipes[i].Name)
	}
	fmt.Fprintf(out, "imported %d recipes, skipped %d\n", created, skipped)
	return created, skipped, nil
}
