package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/recipe-catalog/internal/http/handlers"
	httpMW "github.com/yungbote/recipe-catalog/internal/http/middleware"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	IngredientHandler   *httpH.IngredientHandler
	CategoryHandler     *httpH.CategoryHandler
	RecipeHandler       *httpH.RecipeHandler
	ShoppingListHandler *httpH.ShoppingListHandler
	ChangesHandler      *httpH.ChangesHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Ingredients
		if cfg.IngredientHandler != nil {
			api.GET("/ingredients", cfg.IngredientHandler.List)
			api.POST("/ingredients", cfg.IngredientHandler.Create)
			api.GET("/ingredients/:id", cfg.IngredientHandler.Get)
			api.GET("/ingredients/:id/recipes", cfg.IngredientHandler.Recipes)
			api.PATCH("/ingredients/:id", cfg.IngredientHandler.Update)
			api.DELETE("/ingredients/:id", cfg.IngredientHandler.Delete)
		}

		// Categories
		if cfg.CategoryHandler != nil {
			api.GET("/categories", cfg.CategoryHandler.List)
			api.POST("/categories", cfg.CategoryHandler.Create)
			api.GET("/categories/groups", cfg.CategoryHandler.Groups)
			api.GET("/categories/:id", cfg.CategoryHandler.Get)
			api.PATCH("/categories/:id", cfg.CategoryHandler.Update)
			api.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}

		// Recipes
		if cfg.RecipeHandler != nil {
			api.GET("/recipes", cfg.RecipeHandler.List)
			api.POST("/recipes", cfg.RecipeHandler.Create)
			api.GET("/recipes/:id", cfg.RecipeHandler.Get)
			api.PUT("/recipes/:id", cfg.RecipeHandler.Update)
			api.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)
		}

		// Shopping list
		if cfg.ShoppingListHandler != nil {
			api.GET("/shopping-list", cfg.ShoppingListHandler.List)
			api.POST("/shopping-list/available", cfg.ShoppingListHandler.MarkAllAvailable)
			api.POST("/shopping-list/:id/available", cfg.ShoppingListHandler.MarkAvailable)
		}

		// Change feed
		if cfg.ChangesHandler != nil {
			api.GET("/changes", cfg.ChangesHandler.List)
			api.GET("/changes/stream", cfg.ChangesHandler.Stream)
		}
	}

	return r
}
