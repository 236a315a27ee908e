package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, available bool) *catalog.Ingredient {
	tb.Helper()
	ing := &catalog.Ingredient{
		ID:          uuid.New(),
		Name:        name,
		IsAvailable: available,
	}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *catalog.Category {
	tb.Helper()
	cat := &catalog.Category{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(cat).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return cat
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, categoryID *uuid.UUID) *catalog.Recipe {
	tb.Helper()
	rec := &catalog.Recipe{
		ID:           uuid.New(),
		Name:         name,
		Summary:      "summary",
		CategoryID:   categoryID,
		Servings:     catalog.DefaultServings,
		TimeMinutes:  catalog.DefaultTimeMinutes,
		Instructions: "cook",
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return rec
}

func SeedRecipeLine(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, ingredientID uuid.UUID, quantity string, position int) *catalog.RecipeIngredient {
	tb.Helper()
	rid := recipeID
	iid := ingredientID
	line := &catalog.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     &rid,
		IngredientID: &iid,
		Quantity:     quantity,
		Position:     position,
	}
	if err := tx.WithContext(ctx).Create(line).Error; err != nil {
		tb.Fatalf("seed recipe line: %v", err)
	}
	return line
}
