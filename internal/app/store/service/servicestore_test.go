package service

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/testutil"
)

func sampleFields(slug string) Fields {
	return Fields{
		Slug:        slug,
		Title:       "Virtual Production",
		Description: "End-to-end virtual production for launches and events.",
		HeroImage:   "https://cdn.example.com/hero.jpg",
		Overview:    "<p>What we deliver.</p>",
		Features: []models.ServiceFeature{
			{Title: "Real-time rendering", Description: "Unreal-based pipelines.", IconURL: "/media/icons/white/render.svg"},
			{Title: "Motion capture", Description: "Full-body and facial."},
		},
		Technologies: []models.ServiceTechnology{
			{Name: "Unreal Engine", IconURL: "/media/icons/gradient/unreal.svg"},
		},
		GalleryImages:  []string{"https://cdn.example.com/g1.jpg"},
		ThumbnailImage: "https://cdn.example.com/thumb.jpg",
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, sampleFields("virtual-production"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("ID should be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := store.GetBySlug(ctx, "virtual-production")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if got.ID != created.ID {
		t.Error("GetBySlug() returned wrong record")
	}
	if len(got.Features) != 2 {
		t.Errorf("Features = %d, want 2", len(got.Features))
	}
	if got.Features[0].IconURL == "" {
		t.Error("feature icon URL lost in round trip")
	}

	byID, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Title != "Virtual Production" {
		t.Errorf("Title = %q", byID.Title)
	}
}

func TestStore_DuplicateSlugRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, sampleFields("virtual-production")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, sampleFields("virtual-production")); err == nil {
		t.Error("Create() with duplicate slug succeeded, want unique index violation")
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, sampleFields("virtual-production"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated := sampleFields("virtual-production")
	updated.Title = "Virtual Production Studio"
	updated.Features = updated.Features[:1]
	if err := store.Update(ctx, created.ID, updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Virtual Production Studio" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.Features) != 1 {
		t.Errorf("Features = %d, want 1", len(got.Features))
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("UpdatedAt went backwards after Update()")
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, slug := range []string{"virtual-production", "immersive-training", "digital-twins"} {
		if _, err := store.Create(ctx, sampleFields(slug)); err != nil {
			t.Fatalf("Create(%q) error = %v", slug, err)
		}
	}

	details, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(details) != 3 {
		t.Errorf("List() returned %d pages, want 3", len(details))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, sampleFields("virtual-production"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID() after delete error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_SlugExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, sampleFields("virtual-production"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exists, err := store.SlugExists(ctx, "virtual-production", "")
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if !exists {
		t.Error("SlugExists() = false for an existing slug")
	}

	exists, err = store.SlugExists(ctx, "virtual-production", created.ID)
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if exists {
		t.Error("SlugExists() = true when the only match is excluded")
	}
}
