package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type RecipeIngredientRepo interface {
	Create(dbc dbctx.Context, rows []*catalog.RecipeIngredient) ([]*catalog.RecipeIngredient, error)
	ListAll(dbc dbctx.Context) ([]*catalog.RecipeIngredient, error)
	ListByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]*catalog.RecipeIngredient, error)
	ListByIngredient(dbc dbctx.Context, ingredientID uuid.UUID) ([]*catalog.RecipeIngredient, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// ClearIngredient nullifies ingredient_id on every line referencing the
	// ingredient and returns the line ids it touched.
	ClearIngredient(dbc dbctx.Context, ingredientID uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	// DeleteByRecipe removes every line owned by the recipe and returns their ids.
	DeleteByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]uuid.UUID, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return &recipeIngredientRepo{db: db, log: baseLog.With("repo", "RecipeIngredientRepo")}
}

func (r *recipeIngredientRepo) Create(dbc dbctx.Context, rows []*catalog.RecipeIngredient) ([]*catalog.RecipeIngredient, error) {
	if len(rows) == 0 {
		return []*catalog.RecipeIngredient{}, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeIngredientRepo) ListAll(dbc dbctx.Context) ([]*catalog.RecipeIngredient, error) {
	txx := dbc.Conn(r.db)
	out := []*catalog.RecipeIngredient{}
	if err := txx.WithContext(dbc.Ctx).
		Order("created_at ASC, position ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeIngredientRepo) ListByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]*catalog.RecipeIngredient, error) {
	out := []*catalog.RecipeIngredient{}
	if recipeID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).
		Where("recipe_id = ?", recipeID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeIngredientRepo) ListByIngredient(dbc dbctx.Context, ingredientID uuid.UUID) ([]*catalog.RecipeIngredient, error) {
	out := []*catalog.RecipeIngredient{}
	if ingredientID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeIngredientRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	txx := dbc.Conn(r.db)
	return txx.WithContext(dbc.Ctx).
		Model(&catalog.RecipeIngredient{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *recipeIngredientRepo) ClearIngredient(dbc dbctx.Context, ingredientID uuid.UUID) ([]uuid.UUID, error) {
	if ingredientID == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var ids []uuid.UUID
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.RecipeIngredient{}).
		Where("ingredient_id = ?", ingredientID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.RecipeIngredient{}).
		Where("id IN ?", ids).
		Update("ingredient_id", nil).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeIngredientRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	txx := dbc.Conn(r.db)
	res := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&catalog.RecipeIngredient{})
	return res.RowsAffected, res.Error
}

func (r *recipeIngredientRepo) DeleteByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]uuid.UUID, error) {
	if recipeID == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var ids []uuid.UUID
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.RecipeIngredient{}).
		Where("recipe_id = ?", recipeID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&catalog.RecipeIngredient{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
