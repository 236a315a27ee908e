package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type RecipeRepo interface {
	Create(dbc dbctx.Context, rows []*catalog.Recipe) ([]*catalog.Recipe, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Recipe, error)
	ListAll(dbc dbctx.Context) ([]*catalog.Recipe, error)
	ListByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*catalog.Recipe, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// ClearCategory nullifies category_id on every recipe in the category and
	// returns the ids it touched.
	ClearCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) Create(dbc dbctx.Context, rows []*catalog.Recipe) ([]*catalog.Recipe, error) {
	if len(rows) == 0 {
		return []*catalog.Recipe{}, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Recipe, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var out catalog.Recipe
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *recipeRepo) ListAll(dbc dbctx.Context) ([]*catalog.Recipe, error) {
	txx := dbc.Conn(r.db)
	out := []*catalog.Recipe{}
	if err := txx.WithContext(dbc.Ctx).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) ListByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*catalog.Recipe, error) {
	out := []*catalog.Recipe{}
	if categoryID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	txx := dbc.Conn(r.db)
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	txx := dbc.Conn(r.db)
	return txx.WithContext(dbc.Ctx).
		Model(&catalog.Recipe{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *recipeRepo) ClearCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	if categoryID == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var ids []uuid.UUID
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.Recipe{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.Recipe{}).
		Where("id IN ?", ids).
		Update("category_id", nil).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	txx := dbc.Conn(r.db)
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&catalog.Recipe{})
	return res.RowsAffected, res.Error
}
