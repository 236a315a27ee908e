package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/data/repos/testutil"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

func TestRecipeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewRecipeRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	italian := testutil.SeedCategory(t, ctx, tx, "Italian")
	catID := italian.ID

	created, err := repo.Create(dbc, []*catalog.Recipe{{
		Name:         "Pesto",
		Summary:      "green sauce",
		CategoryID:   &catID,
		Servings:     2,
		TimeMinutes:  15,
		Instructions: "blend",
		ImageData:    []byte{0x1, 0x2},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID

	byCat, err := repo.ListByCategory(dbc, catID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(byCat) != 1 || byCat[0].ID != id {
		t.Fatalf("ListByCategory: unexpected result: %+v", byCat)
	}

	if err := repo.UpdateFields(dbc, id, map[string]interface{}{"image_data": nil}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || len(got.ImageData) != 0 {
		t.Fatalf("UpdateFields: expected cleared image, got %+v", got)
	}

	cleared, err := repo.ClearCategory(dbc, catID)
	if err != nil {
		t.Fatalf("ClearCategory: %v", err)
	}
	if len(cleared) != 1 || cleared[0] != id {
		t.Fatalf("ClearCategory: unexpected ids: %v", cleared)
	}
	got, err = repo.GetByID(dbc, id)
	if err != nil {
		t.Fatalf("GetByID (cleared): %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("ClearCategory: expected nil category, got %v", got.CategoryID)
	}

	affected, err := repo.Delete(dbc, id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Delete: expected 1 row, got %d", affected)
	}
	exists, err := repo.Exists(dbc, id)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("Exists: expected false")
	}
	if n, err := repo.Delete(dbc, uuid.New()); err != nil || n != 0 {
		t.Fatalf("Delete (missing): n=%d err=%v", n, err)
	}
}

func TestRecipeIngredientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	basil := testutil.SeedIngredient(t, ctx, tx, "Basil", true)
	garlic := testutil.SeedIngredient(t, ctx, tx, "Garlic", true)
	pesto := testutil.SeedRecipe(t, ctx, tx, "Pesto", nil)
	soup := testutil.SeedRecipe(t, ctx, tx, "Soup", nil)

	rid := pesto.ID
	bid := basil.ID
	gid := garlic.ID
	lines, err := repo.Create(dbc, []*catalog.RecipeIngredient{
		{RecipeID: &rid, IngredientID: &gid, Quantity: "1 clove", Position: 1},
		{RecipeID: &rid, IngredientID: &bid, Quantity: "2 cups", Position: 0},
		{RecipeID: &rid, IngredientID: &bid, Quantity: "a pinch", Position: 2},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other := testutil.SeedRecipeLine(t, ctx, tx, soup.ID, basil.ID, "1 leaf", 0)

	ordered, err := repo.ListByRecipe(dbc, pesto.ID)
	if err != nil {
		t.Fatalf("ListByRecipe: %v", err)
	}
	if len(ordered) != 3 || ordered[0].Quantity != "2 cups" || ordered[1].Quantity != "1 clove" {
		t.Fatalf("ListByRecipe: unexpected order: %+v", ordered)
	}

	byIng, err := repo.ListByIngredient(dbc, basil.ID)
	if err != nil {
		t.Fatalf("ListByIngredient: %v", err)
	}
	if len(byIng) != 3 {
		t.Fatalf("ListByIngredient: expected 3, got %d", len(byIng))
	}

	cleared, err := repo.ClearIngredient(dbc, basil.ID)
	if err != nil {
		t.Fatalf("ClearIngredient: %v", err)
	}
	if len(cleared) != 3 {
		t.Fatalf("ClearIngredient: expected 3 ids, got %v", cleared)
	}
	ordered, err = repo.ListByRecipe(dbc, pesto.ID)
	if err != nil {
		t.Fatalf("ListByRecipe (cleared): %v", err)
	}
	orphans := 0
	for _, l := range ordered {
		if l.IsOrphaned() {
			orphans++
		}
	}
	if orphans != 2 {
		t.Fatalf("ClearIngredient: expected 2 orphaned pesto lines, got %d", orphans)
	}

	n, err := repo.DeleteByIDs(dbc, []uuid.UUID{lines[0].ID})
	if err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteByIDs: expected 1, got %d", n)
	}

	removed, err := repo.DeleteByRecipe(dbc, pesto.ID)
	if err != nil {
		t.Fatalf("DeleteByRecipe: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("DeleteByRecipe: expected 2 ids, got %v", removed)
	}

	all, err := repo.ListAll(dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != other.ID {
		t.Fatalf("ListAll: expected only the soup line, got %+v", all)
	}
}
