package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/data/repos/testutil"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCategoryRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*catalog.Category{{Name: "Italian"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	exists, err := repo.Exists(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("Exists: expected true")
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{
		"name":     "Sicilian",
		"name_key": catalog.NormalizeName("Sicilian"),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "Sicilian" {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	affected, err := repo.Delete(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Delete: expected 1 row, got %d", affected)
	}
	all, err := repo.ListAll(dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("ListAll: expected empty, got %+v", all)
	}
}
