package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/ctxutil"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	Notifier Notifier
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Notifier == nil {
		d.Notifier = noopNotifier{}
	}
	return d
}

// executeWrite runs fn as one commit. Every failure leaves the store as it
// was and is returned as a coded *domainagg.Error.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	ctx, span := observability.Tracer().Start(ctxutil.Default(ctx), op)
	defer span.End()

	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsDuplicateName(mapped) {
			deps.Hooks.IncDuplicateName(op)
		}
		span.RecordError(mapped)
		span.SetStatus(codes.Error, status)
		if deps.Log != nil {
			fields := append([]interface{}{"op", op, "status", status, "error", mapped}, ctxutil.LogFields(ctx)...)
			if domainagg.IsPersistence(mapped) || domainagg.IsCode(mapped, domainagg.CodeInternal) {
				deps.Log.Error("catalog write failed", fields...)
			} else {
				deps.Log.Debug("catalog write refused", fields...)
			}
		}
	}
	span.SetAttributes(attribute.String("catalog.status", status))
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
