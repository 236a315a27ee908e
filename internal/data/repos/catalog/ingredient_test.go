package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/data/repos/testutil"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

func TestIngredientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewIngredientRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	created, err := repo.Create(dbc, []*catalog.Ingredient{
		{Name: "Basil", IsAvailable: true},
		{Name: "Pine Nuts", IsAvailable: false},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create: expected 2 ingredients, got %d", len(created))
	}
	if created[0].ID == uuid.Nil || created[0].NameKey != "basil" {
		t.Fatalf("Create: expected id and name key, got %+v", created[0])
	}

	got, err := repo.GetByID(dbc, created[1].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "Pine Nuts" || got.IsAvailable {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", missing)
	}

	byIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID, created[1].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(byIDs) != 2 {
		t.Fatalf("GetByIDs: expected 2, got %d", len(byIDs))
	}

	unavailable, err := repo.ListUnavailable(dbc)
	if err != nil {
		t.Fatalf("ListUnavailable: %v", err)
	}
	if len(unavailable) != 1 || unavailable[0].ID != created[1].ID {
		t.Fatalf("ListUnavailable: unexpected result: %+v", unavailable)
	}

	n, err := repo.SetAvailable(dbc, []uuid.UUID{created[0].ID, created[1].ID})
	if err != nil {
		t.Fatalf("SetAvailable: %v", err)
	}
	if n != 1 {
		t.Fatalf("SetAvailable: expected 1 row changed, got %d", n)
	}
	n, err = repo.SetAvailable(dbc, []uuid.UUID{created[1].ID})
	if err != nil {
		t.Fatalf("SetAvailable (again): %v", err)
	}
	if n != 0 {
		t.Fatalf("SetAvailable (again): expected 0 rows changed, got %d", n)
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{
		"name":     "Thai Basil",
		"name_key": catalog.NormalizeName("Thai Basil"),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID (updated): %v", err)
	}
	if got.Name != "Thai Basil" || got.NameKey != "thai basil" {
		t.Fatalf("UpdateFields: unexpected result: %+v", got)
	}

	affected, err := repo.Delete(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Delete: expected 1 row, got %d", affected)
	}
	exists, err := repo.Exists(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("Exists: expected false after delete")
	}

	all, err := repo.ListAll(dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != created[1].ID {
		t.Fatalf("ListAll: unexpected result: %+v", all)
	}
}

func TestIngredientRepoRejectsDuplicateNameKey(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIngredientRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	if _, err := repo.Create(dbc, []*catalog.Ingredient{{Name: "Salt", IsAvailable: true}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, []*catalog.Ingredient{{Name: "  SALT ", IsAvailable: true}}); err == nil {
		t.Fatalf("Create duplicate: expected unique index violation")
	}
}
