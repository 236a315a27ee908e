package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type IngredientRepo interface {
	Create(dbc dbctx.Context, rows []*catalog.Ingredient) ([]*catalog.Ingredient, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Ingredient, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*catalog.Ingredient, error)
	ListAll(dbc dbctx.Context) ([]*catalog.Ingredient, error)
	ListUnavailable(dbc dbctx.Context) ([]*catalog.Ingredient, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetAvailable(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) Create(dbc dbctx.Context, rows []*catalog.Ingredient) ([]*catalog.Ingredient, error) {
	if len(rows) == 0 {
		return []*catalog.Ingredient{}, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ingredientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var out catalog.Ingredient
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ingredientRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*catalog.Ingredient, error) {
	if len(ids) == 0 {
		return []*catalog.Ingredient{}, nil
	}
	txx := dbc.Conn(r.db)
	var out []*catalog.Ingredient
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) ListAll(dbc dbctx.Context) ([]*catalog.Ingredient, error) {
	txx := dbc.Conn(r.db)
	out := []*catalog.Ingredient{}
	if err := txx.WithContext(dbc.Ctx).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) ListUnavailable(dbc dbctx.Context) ([]*catalog.Ingredient, error) {
	txx := dbc.Conn(r.db)
	out := []*catalog.Ingredient{}
	if err := txx.WithContext(dbc.Ctx).
		Where("is_available = ?", false).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	txx := dbc.Conn(r.db)
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.Ingredient{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ingredientRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	txx := dbc.Conn(r.db)
	return txx.WithContext(dbc.Ctx).
		Model(&catalog.Ingredient{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ingredientRepo) SetAvailable(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	txx := dbc.Conn(r.db)
	res := txx.WithContext(dbc.Ctx).
		Model(&catalog.Ingredient{}).
		Where("id IN ? AND is_available = ?", ids, false).
		Update("is_available", true)
	return res.RowsAffected, res.Error
}

func (r *ingredientRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	txx := dbc.Conn(r.db)
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&catalog.Ingredient{})
	return res.RowsAffected, res.Error
}
