package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/recipe-catalog/internal/data/aggregates"
	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type SeedCatalog struct {
	Categories  []string         `yaml:"categories"`
	Ingredients []SeedIngredient `yaml:"ingredients"`
	Recipes     []SeedRecipe     `yaml:"recipes"`
}

type SeedIngredient struct {
	Name      string `yaml:"name"`
	Available *bool  `yaml:"available"`
}

type SeedRecipe struct {
	Name         string     `yaml:"name"`
	Summary      string     `yaml:"summary"`
	Category     string     `yaml:"category"`
	Servings     int        `yaml:"servings"`
	TimeMinutes  int        `yaml:"time_minutes"`
	Instructions string     `yaml:"instructions"`
	Lines        []SeedLine `yaml:"ingredients"`
}

type SeedLine struct {
	Ingredient string `yaml:"ingredient"`
	Quantity   string `yaml:"quantity"`
}

type SeedReport struct {
	CategoriesCreated  int
	IngredientsCreated int
	RecipesCreated     int
	Skipped            []string
}

// ParseSeed decodes a YAML seed file. Unknown keys are rejected.
func ParseSeed(r io.Reader) (*SeedCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var out SeedCatalog
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return &out, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &out, nil
}

// ImportSeed creates the seed's records through svc so every catalog rule
// applies. Names that already exist are skipped. Recipe lines must name an
// ingredient from the seed or the store. References and field rules are
// checked before any write, so a rejected seed leaves the store untouched.
func ImportSeed(ctx context.Context, svc CatalogService, log *logger.Logger, seed *SeedCatalog) (SeedReport, error) {
	log = log.With("service", "SeedImport")
	var report SeedReport
	if seed == nil {
		return report, nil
	}

	existingIngs, err := svc.ListIngredients(ctx)
	if err != nil {
		return report, err
	}
	ingredients := make(map[string]uuid.UUID, len(existingIngs))
	for _, ing := range existingIngs {
		ingredients[catalog.NormalizeName(ing.Name)] = ing.ID
	}
	existingCats, err := svc.ListCategories(ctx)
	if err != nil {
		return report, err
	}
	categories := make(map[string]uuid.UUID, len(existingCats))
	for _, c := range existingCats {
		categories[catalog.NormalizeName(c.Name)] = c.ID
	}

	if err := checkSeedFields(seed); err != nil {
		return report, err
	}
	if err := checkSeedRefs(seed, ingredients, categories); err != nil {
		return report, err
	}

	skip := func(entity, name string) {
		log.Warn("Seed record already exists; skipping", "entity", entity, "name", name)
		report.Skipped = append(report.Skipped, entity+":"+name)
	}

	for _, name := range seed.Categories {
		key := catalog.NormalizeName(name)
		if _, ok := categories[key]; ok {
			skip(catalog.EntityCategory, name)
			continue
		}
		c, err := svc.CreateCategory(ctx, domainagg.CategoryFields{Name: name})
		if err != nil {
			return report, err
		}
		categories[key] = c.ID
		report.CategoriesCreated++
	}

	for _, si := range seed.Ingredients {
		key := catalog.NormalizeName(si.Name)
		if _, ok := ingredients[key]; ok {
			skip(catalog.EntityIngredient, si.Name)
			continue
		}
		available := true
		if si.Available != nil {
			available = *si.Available
		}
		ing, err := svc.CreateIngredient(ctx, domainagg.IngredientFields{Name: si.Name, IsAvailable: available})
		if err != nil {
			return report, err
		}
		ingredients[key] = ing.ID
		report.IngredientsCreated++
	}

	existingRecipes, err := svc.ListRecipes(ctx)
	if err != nil {
		return report, err
	}
	recipes := make(map[string]bool, len(existingRecipes))
	for _, r := range existingRecipes {
		recipes[catalog.NormalizeName(r.Name)] = true
	}

	for _, sr := range seed.Recipes {
		key := catalog.NormalizeName(sr.Name)
		if recipes[key] {
			skip(catalog.EntityRecipe, sr.Name)
			continue
		}
		draft := NewRecipeDraft()
		draft.Fields = seedRecipeFields(sr)
		if strings.TrimSpace(sr.Category) != "" {
			id := categories[catalog.NormalizeName(sr.Category)]
			draft.Fields.CategoryID = &id
		}
		for _, l := range sr.Lines {
			draft.AddLine(ingredients[catalog.NormalizeName(l.Ingredient)], l.Quantity)
		}
		if _, err := svc.SaveRecipeDraft(ctx, draft); err != nil {
			return report, err
		}
		recipes[key] = true
		report.RecipesCreated++
	}

	log.Info("Seed import finished",
		"categories", report.CategoriesCreated,
		"ingredients", report.IngredientsCreated,
		"recipes", report.RecipesCreated,
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// seedRecipeFields fills a blank add form from sr. Zero servings or time keep
// the form defaults.
func seedRecipeFields(sr SeedRecipe) domainagg.RecipeFields {
	f := domainagg.DefaultRecipeFields()
	f.Name = sr.Name
	f.Summary = sr.Summary
	f.Instructions = sr.Instructions
	if sr.Servings != 0 {
		f.Servings = sr.Servings
	}
	if sr.TimeMinutes != 0 {
		f.TimeMinutes = sr.TimeMinutes
	}
	return f
}

func checkSeedFields(seed *SeedCatalog) error {
	const op = "Seed.Import"
	reject := func(entity, name string, err error) error {
		return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("%s %q: %v", entity, name, err), err)
	}
	for _, name := range seed.Categories {
		if err := aggregates.ValidateFields(domainagg.CategoryFields{Name: name}); err != nil {
			return reject(catalog.EntityCategory, name, err)
		}
	}
	for _, si := range seed.Ingredients {
		if err := aggregates.ValidateFields(domainagg.IngredientFields{Name: si.Name}); err != nil {
			return reject(catalog.EntityIngredient, si.Name, err)
		}
	}
	for _, sr := range seed.Recipes {
		if err := aggregates.ValidateFields(seedRecipeFields(sr)); err != nil {
			return reject(catalog.EntityRecipe, sr.Name, err)
		}
	}
	return nil
}

func checkSeedRefs(seed *SeedCatalog, ingredients, categories map[string]uuid.UUID) error {
	ingNames := make(map[string]bool, len(ingredients)+len(seed.Ingredients))
	for k := range ingredients {
		ingNames[k] = true
	}
	for _, si := range seed.Ingredients {
		ingNames[catalog.NormalizeName(si.Name)] = true
	}
	catNames := make(map[string]bool, len(categories)+len(seed.Categories))
	for k := range categories {
		catNames[k] = true
	}
	for _, c := range seed.Categories {
		catNames[catalog.NormalizeName(c)] = true
	}

	const op = "Seed.Import"
	for _, sr := range seed.Recipes {
		if c := strings.TrimSpace(sr.Category); c != "" && !catNames[catalog.NormalizeName(c)] {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("recipe %q: unknown category %q", sr.Name, c), nil)
		}
		for _, l := range sr.Lines {
			if !ingNames[catalog.NormalizeName(l.Ingredient)] {
				return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("recipe %q: unknown ingredient %q", sr.Name, l.Ingredient), nil)
			}
		}
	}
	return nil
}
