package icon

import (
	"testing"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func rocketInput() CreateInput {
	return CreateInput{
		Name:        "rocket.svg",
		Folder:      "white",
		FilePath:    "icons/white/rocket.svg",
		PublicURL:   "http://localhost:8080/media/icons/white/rocket.svg",
		Description: "Launch icon",
		Tags:        []string{"launch", "space"},
		ContentType: "image/svg+xml",
		FileSize:    812,
	}
}

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, rocketInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Error("ID should not be zero")
	}

	in := rocketInput()
	in.Folder = "gradient"
	in.FilePath = "icons/gradient/rocket.svg"
	if _, err := store.Create(ctx, in); err != nil {
		t.Fatalf("Create() in second folder error = %v", err)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListAll() returned %d icons, want 2", len(all))
	}

	white, err := store.ListByFolder(ctx, "white")
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(white) != 1 || white[0].Folder != "white" {
		t.Errorf("ListByFolder(white) = %v", white)
	}
}

func TestStore_DuplicateNameFolderRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, rocketInput()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, rocketInput()); err == nil {
		t.Error("Create() with duplicate (name, folder) succeeded, want unique index violation")
	}
}

func TestStore_Upsert_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First upsert inserts.
	if err := store.Upsert(ctx, rocketInput()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Operator edits the description.
	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListAll() returned %d icons, want 1", len(all))
	}
	if err := store.UpdateMetadata(ctx, all[0].ID, "Edited description", []string{"edited"}); err != nil {
		t.Fatalf("UpdateMetadata() error = %v", err)
	}

	// A second sync refreshes storage fields but keeps the edit.
	refreshed := rocketInput()
	refreshed.FileSize = 2048
	if err := store.Upsert(ctx, refreshed); err != nil {
		t.Fatalf("Upsert() second run error = %v", err)
	}

	all, err = store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Upsert() duplicated the record: %d icons", len(all))
	}
	if all[0].FileSize != 2048 {
		t.Errorf("FileSize = %d, want storage-derived refresh", all[0].FileSize)
	}
	if all[0].Description != "Edited description" {
		t.Errorf("Description = %q, operator edit lost on sync", all[0].Description)
	}
}

func TestStore_PathSetAndDeleteByPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, rocketInput()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	paths, err := store.PathSet(ctx)
	if err != nil {
		t.Fatalf("PathSet() error = %v", err)
	}
	if _, ok := paths["icons/white/rocket.svg"]; !ok {
		t.Errorf("PathSet() = %v, missing expected path", paths)
	}

	if err := store.DeleteByPath(ctx, "icons/white/rocket.svg"); err != nil {
		t.Fatalf("DeleteByPath() error = %v", err)
	}
	paths, err = store.PathSet(ctx)
	if err != nil {
		t.Fatalf("PathSet() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("PathSet() after delete = %v, want empty", paths)
	}
}
