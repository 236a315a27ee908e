package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	runner := spyTxRunner{}

	err := executeWrite(context.Background(), BaseDeps{
		Runner: runner,
		Hooks:  hooks,
	}, "aggregate.test.success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 {
		t.Fatalf("operations count: want=1 got=%d", len(hooks.Operations))
	}
	if hooks.Operations[0].Status != "success" {
		t.Fatalf("operation status: want=success got=%s", hooks.Operations[0].Status)
	}
}

func TestExecuteWriteObservesInvariantViolationStatus(t *testing.T) {
	hooks := &spyHooks{}
	runner := spyTxRunner{}

	err := executeWrite(context.Background(), BaseDeps{
		Runner: runner,
		Hooks:  hooks,
	}, "aggregate.test.invariant", func(_ dbctx.Context) error {
		return InvariantError("invariant broken")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant violation code, got=%v", err)
	}
	if hooks.Operations[0].Status != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("operation status: want=%s got=%s", domainagg.CodeInvariantViolation, hooks.Operations[0].Status)
	}
}

func TestExecuteWriteTracksDuplicateNames(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "aggregate.test.duplicate", func(_ dbctx.Context) error {
		return duplicateNameError("aggregate.test.duplicate", "ingredient", "Salt")
	})
	if !domainagg.IsDuplicateName(err) {
		t.Fatalf("expected duplicate_name code, got=%v", err)
	}
	if len(hooks.Duplicates) != 1 || hooks.Duplicates[0] != "aggregate.test.duplicate" {
		t.Fatalf("duplicate hooks: %+v", hooks.Duplicates)
	}
	if hooks.Operations[0].Status != string(domainagg.CodeDuplicateName) {
		t.Fatalf("unexpected op status: %+v", hooks.Operations)
	}
}

func TestExecuteWriteMapsCommitFailureToPersistence(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{commitErr: errors.New("disk I/O error")},
		Hooks:  hooks,
	}, "aggregate.test.commit", func(_ dbctx.Context) error { return nil })
	if !domainagg.IsPersistence(err) {
		t.Fatalf("expected persistence code, got=%v", err)
	}
	if len(hooks.Duplicates) != 0 {
		t.Fatalf("duplicate hooks should be empty, got=%+v", hooks.Duplicates)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(InvariantError("x")); got != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("invariant status: got=%s", got)
	}
	if got := aggregateErrorStatus(ValidationError("x")); got != string(domainagg.CodeValidation) {
		t.Fatalf("validation status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodePersistence) {
		t.Fatalf("deadline status: got=%s", got)
	}
}

type spyTxRunner struct {
	commitErr error
}

func (r spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		return err
	}
	return r.commitErr
}

type spyHooks struct {
	Operations []spyOperation
	Duplicates []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncDuplicateName(name string) {
	h.Duplicates = append(h.Duplicates, name)
}
