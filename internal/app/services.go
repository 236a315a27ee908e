package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/data/aggregates"
	"github.com/yungbote/recipe-catalog/internal/data/repos"
	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"github.com/yungbote/recipe-catalog/internal/realtime/feed"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type Services struct {
	Aggregate domainagg.CatalogAggregate
	Catalog   services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, changes *feed.Feed, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	agg := aggregates.NewCatalogAggregate(aggregates.CatalogAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:       db,
			Log:      log,
			Hooks:    aggregates.NewObservabilityHooks(metrics),
			Notifier: changes,
		},
		Ingredients: set.Ingredients,
		Categories:  set.Categories,
		Recipes:     set.Recipes,
		Lines:       set.RecipeIngredients,
		Changes:     set.Changes,
	})
	if c := agg.Contract(); !c.RequiresAggregateOwnedTx() {
		log.Warn("Catalog aggregate does not own its write transactions", "contract", c.Name, "ownership", c.WriteTxOwnership)
	} else {
		log.Info("Catalog aggregate ready", "contract", c.Name, "readPolicy", c.ReadPolicy)
	}
	return Services{
		Aggregate: agg,
		Catalog:   services.NewCatalogService(db, log, set, agg, cfg.ChangePageSize),
	}
}
