package catalog

import (
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"gorm.io/gorm"
)

const (
	defaultChangePage = 100
	maxChangePage     = 500
)

type ChangeEventRepo interface {
	Append(dbc dbctx.Context, ev *catalog.ChangeEvent) (*catalog.ChangeEvent, error)
	ListSince(dbc dbctx.Context, afterSeq uint64, limit int) ([]*catalog.ChangeEvent, error)
	LatestSeq(dbc dbctx.Context) (uint64, error)
}

type changeEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeEventRepo(db *gorm.DB, baseLog *logger.Logger) ChangeEventRepo {
	return &changeEventRepo{db: db, log: baseLog.With("repo", "ChangeEventRepo")}
}

func (r *changeEventRepo) Append(dbc dbctx.Context, ev *catalog.ChangeEvent) (*catalog.ChangeEvent, error) {
	if ev == nil {
		return nil, nil
	}
	txx := dbc.Conn(r.db)
	if err := txx.WithContext(dbc.Ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *changeEventRepo) ListSince(dbc dbctx.Context, afterSeq uint64, limit int) ([]*catalog.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultChangePage
	}
	if limit > maxChangePage {
		limit = maxChangePage
	}
	txx := dbc.Conn(r.db)
	out := []*catalog.ChangeEvent{}
	if err := txx.WithContext(dbc.Ctx).
		Where("seq > ?", afterSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *changeEventRepo) LatestSeq(dbc dbctx.Context) (uint64, error) {
	txx := dbc.Conn(r.db)
	var seq uint64
	if err := txx.WithContext(dbc.Ctx).
		Model(&catalog.ChangeEvent{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}
