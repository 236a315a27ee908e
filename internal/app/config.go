package app

import (
	"strings"

	"github.com/yungbote/recipe-catalog/internal/data/db"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/envutil"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"github.com/yungbote/recipe-catalog/internal/realtime/bus"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type Config struct {
	Env      string
	HTTPAddr string

	DB db.Options

	RedisAddr    string
	RedisChannel string

	CORSOrigins    []string
	MetricsEnabled bool
	ChangePageSize int

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.GetEnv("APP_ENV", "development", log)
	return Config{
		Env:      env,
		HTTPAddr: envutil.GetEnv("HTTP_ADDR", ":8080", log),
		DB: db.Options{
			Driver:     envutil.GetEnv("CATALOG_DB_DRIVER", db.DriverSQLite, log),
			SQLitePath: envutil.GetEnv("CATALOG_SQLITE_PATH", "catalog.db", log),
		},
		RedisAddr:      envutil.GetEnv("REDIS_ADDR", "", log),
		RedisChannel:   envutil.GetEnv("REDIS_CHANNEL", bus.DefaultChannel, log),
		CORSOrigins:    splitList(envutil.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		MetricsEnabled: envutil.GetEnvAsBool("METRICS_ENABLED", true, log),
		ChangePageSize: envutil.GetEnvAsInt("CHANGE_FEED_PAGE_SIZE", services.DefaultChangePageSize, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "recipe-catalog", log),
			Environment: env,
			Version:     envutil.GetEnv("APP_VERSION", "dev", log),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			Headers:     envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			SampleRatio: envutil.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
