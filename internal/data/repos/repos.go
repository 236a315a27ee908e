package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/data/repos/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type IngredientRepo = catalog.IngredientRepo
type CategoryRepo = catalog.CategoryRepo
type RecipeRepo = catalog.RecipeRepo
type RecipeIngredientRepo = catalog.RecipeIngredientRepo
type ChangeEventRepo = catalog.ChangeEventRepo

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return catalog.NewIngredientRepo(db, baseLog)
}
func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, baseLog)
}
func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return catalog.NewRecipeRepo(db, baseLog)
}
func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return catalog.NewRecipeIngredientRepo(db, baseLog)
}
func NewChangeEventRepo(db *gorm.DB, baseLog *logger.Logger) ChangeEventRepo {
	return catalog.NewChangeEventRepo(db, baseLog)
}

// Set bundles every catalog repo over one gorm handle.
type Set struct {
	Ingredients       IngredientRepo
	Categories        CategoryRepo
	Recipes           RecipeRepo
	RecipeIngredients RecipeIngredientRepo
	Changes           ChangeEventRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Ingredients:       NewIngredientRepo(db, baseLog),
		Categories:        NewCategoryRepo(db, baseLog),
		Recipes:           NewRecipeRepo(db, baseLog),
		RecipeIngredients: NewRecipeIngredientRepo(db, baseLog),
		Changes:           NewChangeEventRepo(db, baseLog),
	}
}
