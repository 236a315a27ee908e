package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, rows []*catalog.Category) ([]*catalog.Category, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Category, error)
	ListAll(dbc dbctx.Context) ([]*catalog.Category, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, rows []*catalog.Category) ([]*catalog.Category, error) {
	if len(rows) == 0 {
		return []*catalog.Category{}, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*catalog.Category, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	var out catalog.Category
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) ListAll(dbc dbctx.Context) ([]*catalog.Category, error) {
	txx := dbc.Conn(r.db)
	out := []*catalog.Category{}
	if err := txx.WithContext(dbc.Ctx).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	txx := dbc.Conn(r.db)
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.Category{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	txx := dbc.Conn(r.db)
	return txx.WithContext(dbc.Ctx).
		Model(&catalog.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	txx := dbc.Conn(r.db)
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&catalog.Category{})
	return res.RowsAffected, res.Error
}
