package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/recipe-catalog/internal/http"
	httpH "github.com/yungbote/recipe-catalog/internal/http/handlers"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"github.com/yungbote/recipe-catalog/internal/realtime/feed"
)

func wireRouter(log *logger.Logger, cfg Config, svcs Services, changes *feed.Feed, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewRouter(httpx.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		IngredientHandler:   httpH.NewIngredientHandler(svcs.Catalog),
		CategoryHandler:     httpH.NewCategoryHandler(svcs.Catalog),
		RecipeHandler:       httpH.NewRecipeHandler(svcs.Catalog),
		ShoppingListHandler: httpH.NewShoppingListHandler(svcs.Catalog),
		ChangesHandler:      httpH.NewChangesHandler(log, svcs.Catalog, changes),
		HealthHandler:       httpH.NewHealthHandler(),
	})
}
