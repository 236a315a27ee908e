package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/data/aggregates"
	aggtest "github.com/yungbote/recipe-catalog/internal/data/aggregates/testutil"
	"github.com/yungbote/recipe-catalog/internal/data/repos"
	repotest "github.com/yungbote/recipe-catalog/internal/data/repos/testutil"
	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

type fixture struct {
	db    *gorm.DB
	agg   domainagg.CatalogAggregate
	repos repos.Set
	hooks *aggtest.HooksRecorder
	notes *aggtest.NotifierRecorder
	dbc   dbctx.Context
}

func newFixture(t *testing.T, runner aggregates.TxRunner) fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	hooks := &aggtest.HooksRecorder{}
	notes := &aggtest.NotifierRecorder{}
	agg := aggregates.NewCatalogAggregate(aggregates.CatalogAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:       db,
			Log:      log,
			Runner:   runner,
			Hooks:    hooks,
			Notifier: notes,
		},
		Ingredients: set.Ingredients,
		Categories:  set.Categories,
		Recipes:     set.Recipes,
		Lines:       set.RecipeIngredients,
		Changes:     set.Changes,
	})
	return fixture{
		db:    db,
		agg:   agg,
		repos: set,
		hooks: hooks,
		notes: notes,
		dbc:   dbctx.Context{Ctx: context.Background()},
	}
}

func recipeFields(name string, categoryID *uuid.UUID) domainagg.RecipeFields {
	f := domainagg.DefaultRecipeFields()
	f.Name = name
	f.Summary = "summary"
	f.Instructions = "cook it"
	f.CategoryID = categoryID
	return f
}

func newLine(ingredientID uuid.UUID, qty string) domainagg.RecipeLineInput {
	id := ingredientID
	return domainagg.RecipeLineInput{IngredientID: &id, Quantity: qty}
}

func TestCreateIngredientRejectsCaseInsensitiveDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	salt, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "  Salt ", IsAvailable: true})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if salt.Name != "Salt" || !salt.IsAvailable {
		t.Fatalf("expected trimmed available ingredient, got %+v", salt)
	}

	_, err = f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "SALT", IsAvailable: true})
	if !domainagg.IsDuplicateName(err) {
		t.Fatalf("expected duplicate_name, got %v", err)
	}
	if len(f.hooks.Duplicates) != 1 {
		t.Fatalf("expected duplicate hook, got %+v", f.hooks.Duplicates)
	}

	all, err := f.repos.Ingredients.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("store must be unchanged after refused create, got %d ingredients", len(all))
	}
	if f.notes.Count() != 1 {
		t.Fatalf("only the successful create should notify, got %d", f.notes.Count())
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "   "}); !domainagg.IsValidation(err) {
		t.Fatalf("ingredient: expected validation, got %v", err)
	}
	if _, err := f.agg.CreateCategory(ctx, domainagg.CategoryFields{Name: ""}); !domainagg.IsValidation(err) {
		t.Fatalf("category: expected validation, got %v", err)
	}
	if _, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{Fields: recipeFields(" ", nil)}); !domainagg.IsValidation(err) {
		t.Fatalf("recipe: expected validation, got %v", err)
	}
}

func TestUpdateExcludesRecordUnderEdit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	basil, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Basil", IsAvailable: true})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if _, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Garlic", IsAvailable: true}); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	updated, err := f.agg.UpdateIngredient(ctx, basil.ID, domainagg.IngredientFields{Name: "BASIL", IsAvailable: false})
	if err != nil {
		t.Fatalf("re-casing own name must succeed: %v", err)
	}
	if updated.Name != "BASIL" || updated.IsAvailable {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	_, err = f.agg.UpdateIngredient(ctx, basil.ID, domainagg.IngredientFields{Name: "garlic"})
	if !domainagg.IsDuplicateName(err) {
		t.Fatalf("expected duplicate_name, got %v", err)
	}

	_, err = f.agg.UpdateIngredient(ctx, uuid.New(), domainagg.IngredientFields{Name: "Thyme"})
	if !domainagg.IsNotFound(err) {
		t.Fatalf("expected not_found, got %v", err)
	}

	italian, err := f.agg.CreateCategory(ctx, domainagg.CategoryFields{Name: "Italian"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := f.agg.UpdateCategory(ctx, italian.ID, domainagg.CategoryFields{Name: "italian"}); err != nil {
		t.Fatalf("UpdateCategory own name: %v", err)
	}
}

func TestNamesAreUniquePerTypeOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Pesto", IsAvailable: true}); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if _, err := f.agg.CreateCategory(ctx, domainagg.CategoryFields{Name: "Pesto"}); err != nil {
		t.Fatalf("CreateCategory with same name as ingredient: %v", err)
	}
	if _, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{Fields: recipeFields("pesto", nil)}); err != nil {
		t.Fatalf("SaveRecipe with same name as ingredient: %v", err)
	}
}

func TestItalianBasilPestoScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	italian, err := f.agg.CreateCategory(ctx, domainagg.CategoryFields{Name: "Italian"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	basil, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Basil", IsAvailable: true})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	catID := italian.ID
	saved, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("Pesto", &catID),
		Lines:  []domainagg.RecipeLineInput{newLine(basil.ID, "2 cups")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if !saved.Created || len(saved.Lines) != 1 {
		t.Fatalf("unexpected save result: %+v", saved)
	}

	if _, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "basil", IsAvailable: true}); !domainagg.IsDuplicateName(err) {
		t.Fatalf("expected duplicate_name for basil, got %v", err)
	}

	del, err := f.agg.DeleteIngredient(ctx, basil.ID)
	if err != nil {
		t.Fatalf("DeleteIngredient: %v", err)
	}
	if len(del.Affected) != 1 || del.Affected[0] != saved.Lines[0].ID {
		t.Fatalf("expected the pesto line to be nullified, got %+v", del.Affected)
	}
	lines, err := f.repos.RecipeIngredients.ListByRecipe(f.dbc, saved.Recipe.ID)
	if err != nil {
		t.Fatalf("ListByRecipe: %v", err)
	}
	if len(lines) != 1 || !lines[0].IsOrphaned() || lines[0].Quantity != "2 cups" {
		t.Fatalf("expected one orphaned line with quantity kept, got %+v", lines)
	}

	if _, err := f.agg.DeleteCategory(ctx, italian.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	rec, err := f.repos.Recipes.GetByID(f.dbc, saved.Recipe.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec == nil || rec.CategoryID != nil {
		t.Fatalf("expected recipe with nil category, got %+v", rec)
	}

	del, err = f.agg.DeleteRecipe(ctx, saved.Recipe.ID)
	if err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	if len(del.Affected) != 1 {
		t.Fatalf("expected one cascaded line, got %+v", del.Affected)
	}
	all, err := f.repos.RecipeIngredients.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll lines: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no line items after recipe delete, got %d", len(all))
	}
}

func TestDeleteRecipeCascadesOnlyItsLines(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	salt, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Salt", IsAvailable: true})
	a, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("A", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(salt.ID, "1 tsp"), newLine(salt.ID, "1 pinch")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe A: %v", err)
	}
	b, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("B", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(salt.ID, "2 tsp")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe B: %v", err)
	}

	if _, err := f.agg.DeleteRecipe(ctx, a.Recipe.ID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	all, err := f.repos.RecipeIngredients.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != b.Lines[0].ID {
		t.Fatalf("expected only recipe B's line to remain, got %+v", all)
	}
	ok, err := f.repos.Ingredients.Exists(f.dbc, salt.ID)
	if err != nil || !ok {
		t.Fatalf("ingredient must survive recipe delete: ok=%v err=%v", ok, err)
	}

	if _, err := f.agg.DeleteRecipe(ctx, a.Recipe.ID); !domainagg.IsNotFound(err) {
		t.Fatalf("second delete: expected not_found, got %v", err)
	}
}

func TestSaveRecipeEditSyncsDraftLines(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	basil, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Basil", IsAvailable: true})
	garlic, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Garlic", IsAvailable: true})
	oil, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Olive Oil", IsAvailable: true})

	fields := recipeFields("Pesto", nil)
	fields.ImageData = []byte{0xff, 0xd8}
	saved, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: fields,
		Lines: []domainagg.RecipeLineInput{
			newLine(basil.ID, "2 cups"),
			newLine(garlic.ID, "1 clove"),
		},
	})
	if err != nil {
		t.Fatalf("SaveRecipe add: %v", err)
	}
	if len(saved.Recipe.ImageData) != 2 {
		t.Fatalf("expected image stored, got %d bytes", len(saved.Recipe.ImageData))
	}
	id := saved.Recipe.ID

	// Drop garlic, edit basil quantity, append oil, clear the image.
	edit := recipeFields("Pesto Genovese", nil)
	edit.Servings = 4
	edit.TimeMinutes = 20
	keep := domainagg.RecipeLineInput{ID: saved.Lines[0].ID, IngredientID: saved.Lines[0].IngredientID, Quantity: "3 cups"}
	res, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		RecipeID: &id,
		Fields:   edit,
		Lines:    []domainagg.RecipeLineInput{keep, newLine(oil.ID, "1/2 cup")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe edit: %v", err)
	}
	if res.Created {
		t.Fatalf("edit must not report Created")
	}
	if len(res.RemovedLines) != 1 || res.RemovedLines[0] != saved.Lines[1].ID {
		t.Fatalf("expected garlic line removed, got %+v", res.RemovedLines)
	}
	if res.Recipe.Name != "Pesto Genovese" || res.Recipe.Servings != 4 || res.Recipe.TimeMinutes != 20 {
		t.Fatalf("fields not applied: %+v", res.Recipe)
	}
	if len(res.Recipe.ImageData) != 0 {
		t.Fatalf("expected image cleared, got %d bytes", len(res.Recipe.ImageData))
	}

	lines, err := f.repos.RecipeIngredients.ListByRecipe(f.dbc, id)
	if err != nil {
		t.Fatalf("ListByRecipe: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ID != saved.Lines[0].ID || lines[0].Quantity != "3 cups" {
		t.Fatalf("expected linked basil line kept in place with new quantity, got %+v", lines[0])
	}
	if lines[1].IngredientID == nil || *lines[1].IngredientID != oil.ID {
		t.Fatalf("expected oil line appended, got %+v", lines[1])
	}
}

func TestSaveRecipeAllowsDuplicateIngredients(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	salt, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Salt", IsAvailable: true})
	res, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("Brine", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(salt.ID, "1 tbsp"), newLine(salt.ID, "to taste")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if len(res.Lines) != 2 || res.Lines[0].Position != 0 || res.Lines[1].Position != 1 {
		t.Fatalf("expected two ordered lines, got %+v", res.Lines)
	}
}

func TestSaveRecipeRejectsBadReferences(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	missingCat := uuid.New()
	if _, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{Fields: recipeFields("X", &missingCat)}); !domainagg.IsNotFound(err) {
		t.Fatalf("missing category: expected not_found, got %v", err)
	}
	if _, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("X", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(uuid.New(), "1")},
	}); !domainagg.IsNotFound(err) {
		t.Fatalf("missing ingredient: expected not_found, got %v", err)
	}
	recipes, err := f.repos.Recipes.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(recipes) != 0 {
		t.Fatalf("failed saves must not leave a recipe behind, got %d", len(recipes))
	}

	salt, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Salt", IsAvailable: true})
	a, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("A", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(salt.ID, "1")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe A: %v", err)
	}
	b, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{Fields: recipeFields("B", nil)})
	if err != nil {
		t.Fatalf("SaveRecipe B: %v", err)
	}
	bID := b.Recipe.ID
	_, err = f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		RecipeID: &bID,
		Fields:   recipeFields("B", nil),
		Lines:    []domainagg.RecipeLineInput{{ID: a.Lines[0].ID, Quantity: "stolen"}},
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("foreign line: expected invariant_violation, got %v", err)
	}
}

func TestSetIngredientsAvailable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "A", IsAvailable: false})
	b, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "B", IsAvailable: false})
	c, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "C", IsAvailable: true})

	one, err := f.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{IngredientIDs: []uuid.UUID{a.ID, c.ID}})
	if err != nil {
		t.Fatalf("mark one: %v", err)
	}
	if len(one.Updated) != 1 || one.Updated[0] != a.ID {
		t.Fatalf("expected only A updated, got %+v", one.Updated)
	}

	all, err := f.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{All: true})
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if len(all.Updated) != 1 || all.Updated[0] != b.ID {
		t.Fatalf("expected only B updated, got %+v", all.Updated)
	}
	pending, err := f.repos.Ingredients.ListUnavailable(f.dbc)
	if err != nil {
		t.Fatalf("ListUnavailable: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("shopping list must be empty, got %d", len(pending))
	}

	again, err := f.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{All: true})
	if err != nil {
		t.Fatalf("mark all again: %v", err)
	}
	if len(again.Updated) != 0 {
		t.Fatalf("mark all must be idempotent, got %+v", again.Updated)
	}

	if _, err := f.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{IngredientIDs: []uuid.UUID{uuid.New()}}); !domainagg.IsNotFound(err) {
		t.Fatalf("unknown id: expected not_found, got %v", err)
	}
}

func TestCommitFailureLeavesNoPartialState(t *testing.T) {
	runner := &aggtest.InjectedTxRunner{}
	f := newFixture(t, runner)
	runner.DB = f.db
	ctx := context.Background()

	salt, err := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Salt", IsAvailable: true})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	published := f.notes.Count()

	runner.FailCommit = errors.New("disk full")
	_, err = f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("Soup", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(salt.ID, "1 tsp")},
	})
	if !domainagg.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if f.hooks.LastStatus() != string(domainagg.CodePersistence) {
		t.Fatalf("expected persistence status, got %q", f.hooks.LastStatus())
	}

	recipes, err := f.repos.Recipes.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll recipes: %v", err)
	}
	lines, err := f.repos.RecipeIngredients.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll lines: %v", err)
	}
	if len(recipes) != 0 || len(lines) != 0 {
		t.Fatalf("rolled back save left recipes=%d lines=%d", len(recipes), len(lines))
	}
	changes, err := f.repos.Changes.ListSince(f.dbc, 0, 0)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("expected only the ingredient create in the change log, got %d", len(changes))
	}
	if f.notes.Count() != published {
		t.Fatalf("failed write must not notify")
	}

	runner.FailCommit = nil
	if _, err := f.agg.DeleteIngredient(ctx, salt.ID); err != nil {
		t.Fatalf("DeleteIngredient after recovery: %v", err)
	}
}

func TestWritesAppendChangeEventsAndNotify(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	basil, _ := f.agg.CreateIngredient(ctx, domainagg.IngredientFields{Name: "Basil", IsAvailable: true})
	saved, err := f.agg.SaveRecipe(ctx, domainagg.SaveRecipeInput{
		Fields: recipeFields("Pesto", nil),
		Lines:  []domainagg.RecipeLineInput{newLine(basil.ID, "1")},
	})
	if err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}

	changes, err := f.repos.Changes.ListSince(f.dbc, 0, 0)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("expected ingredient + recipe + line events, got %d", len(changes))
	}
	if changes[1].Entity != catalog.EntityRecipe || changes[1].Kind != catalog.ChangeCreated {
		t.Fatalf("unexpected recipe event: %+v", changes[1])
	}
	if ids := changes[2].IDs(); len(ids) != 1 || ids[0] != saved.Lines[0].ID {
		t.Fatalf("unexpected line event ids: %v", ids)
	}
	if f.notes.Count() != 2 {
		t.Fatalf("expected one notification per write, got %d", f.notes.Count())
	}
	if len(f.notes.Batches[1]) != 2 || f.notes.Batches[1][0].Seq == 0 {
		t.Fatalf("published events should carry committed seqs: %+v", f.notes.Batches[1])
	}
}
