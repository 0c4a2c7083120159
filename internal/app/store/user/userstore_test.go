package user

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/authutil"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func TestStore_CreateAndGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := authutil.HashPassword("a-decent-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	created, err := store.Create(ctx, CreateInput{
		Email:        "  Ops@Example.COM ",
		Name:         "Ops Admin",
		PasswordHash: hash,
		Role:         "Admin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Email != "ops@example.com" {
		t.Errorf("Email = %q, want normalized", created.Email)
	}
	if created.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want normalized", created.Role)
	}
	if created.Status != models.StatusActive {
		t.Errorf("Status = %q", created.Status)
	}

	// Lookup normalizes too.
	got, err := store.GetByEmail(ctx, "OPS@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Error("GetByEmail() returned wrong user")
	}
	if !authutil.CheckPassword("a-decent-password", got.PasswordHash) {
		t.Error("stored hash does not verify")
	}
}

func TestStore_DuplicateEmailRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	input := CreateInput{Email: "ops@example.com", Name: "One", PasswordHash: []byte("x"), Role: "admin"}
	if _, err := store.Create(ctx, input); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, input); err == nil {
		t.Error("Create() with duplicate email succeeded, want unique index violation")
	}
}

func TestStore_EnsureAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, created, err := store.EnsureAdmin(ctx, "seed@example.com", "Seed Admin", []byte("hash"))
	if err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	if !created {
		t.Error("EnsureAdmin() did not create on empty database")
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q", u.Role)
	}

	// Second run finds the existing account.
	again, created, err := store.EnsureAdmin(ctx, "seed@example.com", "Seed Admin", []byte("hash"))
	if err != nil {
		t.Fatalf("EnsureAdmin() second run error = %v", err)
	}
	if created {
		t.Error("EnsureAdmin() created a duplicate")
	}
	if again.ID != u.ID {
		t.Error("EnsureAdmin() returned a different user")
	}
}

func TestStore_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{
		Email: "ops@example.com", Name: "Ops", PasswordHash: []byte("x"), Role: "admin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	su := store.FetchUser(ctx, created.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser() = nil for an active user")
	}
	if su.Email != "ops@example.com" || su.Role != "admin" {
		t.Errorf("FetchUser() = %+v", su)
	}

	if su := store.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Error("FetchUser() accepted a malformed ID")
	}

	// Disabled users invalidate their sessions.
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": created.ID},
		bson.M{"$set": bson.M{"status": models.StatusDisabled}})
	if err != nil {
		t.Fatalf("disable user: %v", err)
	}
	if su := store.FetchUser(ctx, created.ID.Hex()); su != nil {
		t.Error("FetchUser() returned a disabled user")
	}
}

func TestStore_SetPasswordHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{
		Email: "ops@example.com", Name: "Ops", PasswordHash: []byte("old"), Role: "admin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SetPasswordHash(ctx, created.ID, []byte("new")); err != nil {
		t.Fatalf("SetPasswordHash() error = %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if string(got.PasswordHash) != "new" {
		t.Errorf("PasswordHash = %q", got.PasswordHash)
	}

	if _, err := store.GetByID(ctx, created.ID); errors.Is(err, mongo.ErrNoDocuments) {
		t.Error("user vanished after password update")
	}
}
