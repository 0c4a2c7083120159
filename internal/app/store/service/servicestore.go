// Package service provides storage for solution pages.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Store provides access to the services collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new service store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("services"),
	}
}

// Fields holds every operator-editable field of a solution page. The admin
// form always submits the complete document, so create and update share
// this shape.
type Fields struct {
	Slug            string
	Title           string
	Description     string
	HeroImage       string
	Overview        string
	Features        []models.ServiceFeature
	Technologies    []models.ServiceTechnology
	GalleryImages   []string
	ServiceIcons    []string
	FeaturedImages  []string
	ThumbnailImage  string
	BackgroundImage string
}

// Create creates a new solution page record.
func (s *Store) Create(ctx context.Context, input Fields) (*models.ServiceDetail, error) {
	now := time.Now().UTC()
	detail := models.ServiceDetail{
		ID:              uuid.NewString(),
		Slug:            input.Slug,
		Title:           input.Title,
		Description:     input.Description,
		HeroImage:       input.HeroImage,
		Overview:        input.Overview,
		Features:        input.Features,
		Technologies:    input.Technologies,
		GalleryImages:   input.GalleryImages,
		ServiceIcons:    input.ServiceIcons,
		FeaturedImages:  input.FeaturedImages,
		ThumbnailImage:  input.ThumbnailImage,
		BackgroundImage: input.BackgroundImage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.c.InsertOne(ctx, detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// GetByID retrieves a solution page by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*models.ServiceDetail, error) {
	var detail models.ServiceDetail
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetBySlug retrieves a solution page by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.ServiceDetail, error) {
	var detail models.ServiceDetail
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update replaces all editable fields of a solution page.
func (s *Store) Update(ctx context.Context, id string, input Fields) error {
	set := bson.M{
		"slug":             input.Slug,
		"title":            input.Title,
		"description":      input.Description,
		"hero_image":       input.HeroImage,
		"overview":         input.Overview,
		"features":         input.Features,
		"technologies":     input.Technologies,
		"gallery_images":   input.GalleryImages,
		"service_icons":    input.ServiceIcons,
		"featured_images":  input.FeaturedImages,
		"thumbnail_image":  input.ThumbnailImage,
		"background_image": input.BackgroundImage,
		"updated_at":       time.Now().UTC(),
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete deletes a solution page record.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns all solution pages, newest first.
func (s *Store) List(ctx context.Context) ([]models.ServiceDetail, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.c.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.ServiceDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Count returns the total number of solution pages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// SlugExists checks if a solution page with the given slug exists.
// Pass excludeID to exclude a specific page (useful for updates).
func (s *Store) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
