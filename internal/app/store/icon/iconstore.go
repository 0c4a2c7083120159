// Package icon provides storage for the icon asset catalog.
//
// Storage is the source of truth for icons: the catalog records decorate
// what is actually in the blob store with names, descriptions, and tags.
// Sync upserts by (name, folder) so re-running it never duplicates records.
package icon

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Store provides access to the icon_assets collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new icon store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("icon_assets"),
	}
}

// CreateInput contains the input for creating an icon record.
type CreateInput struct {
	Name        string
	Folder      string
	FilePath    string
	PublicURL   string
	Description string
	Tags        []string
	ContentType string
	FileSize    int64
}

// Create creates a new icon record.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.IconAsset, error) {
	icon := models.IconAsset{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Folder:      input.Folder,
		FilePath:    input.FilePath,
		PublicURL:   input.PublicURL,
		Description: input.Description,
		Tags:        input.Tags,
		ContentType: input.ContentType,
		FileSize:    input.FileSize,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, icon); err != nil {
		return nil, err
	}

	return &icon, nil
}

// Upsert inserts or refreshes the record for a stored file, keyed by
// (name, folder). Operator-entered metadata (description, tags) is
// preserved on refresh; storage-derived fields are overwritten.
func (s *Store) Upsert(ctx context.Context, input CreateInput) error {
	filter := bson.M{"name": input.Name, "folder": input.Folder}
	update := bson.M{
		"$set": bson.M{
			"file_path":    input.FilePath,
			"public_url":   input.PublicURL,
			"content_type": input.ContentType,
			"file_size":    input.FileSize,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"name":        input.Name,
			"folder":      input.Folder,
			"description": input.Description,
			"tags":        input.Tags,
			"created_at":  time.Now().UTC(),
		},
	}

	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByID retrieves an icon by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.IconAsset, error) {
	var icon models.IconAsset
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&icon); err != nil {
		return nil, err
	}
	return &icon, nil
}

// UpdateMetadata updates the operator-entered fields of an icon record.
func (s *Store) UpdateMetadata(ctx context.Context, id primitive.ObjectID, description string, tags []string) error {
	set := bson.M{
		"description": description,
		"tags":        tags,
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete deletes an icon record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByPath deletes the record for a storage path. Used by sync when a
// file has disappeared from storage.
func (s *Store) DeleteByPath(ctx context.Context, filePath string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"file_path": filePath})
	return err
}

// ExistsByPath checks whether a record already claims the given storage
// path.
func (s *Store) ExistsByPath(ctx context.Context, filePath string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"file_path": filePath})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAll returns every icon, grouped by folder then name.
func (s *Store) ListAll(ctx context.Context) ([]models.IconAsset, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "folder", Value: 1},
		{Key: "name", Value: 1},
	})

	cursor, err := s.c.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var icons []models.IconAsset
	if err := cursor.All(ctx, &icons); err != nil {
		return nil, err
	}
	return icons, nil
}

// ListByFolder returns the icons in one folder, sorted by name.
func (s *Store) ListByFolder(ctx context.Context, folder string) ([]models.IconAsset, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.c.Find(ctx, bson.M{"folder": folder}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var icons []models.IconAsset
	if err := cursor.All(ctx, &icons); err != nil {
		return nil, err
	}
	return icons, nil
}

// Count returns the total number of catalog entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// PathSet returns the set of file paths currently in the catalog. Sync
// compares this against the storage listing.
func (s *Store) PathSet(ctx context.Context) (map[string]struct{}, error) {
	cursor, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"file_path": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	paths := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			FilePath string `bson:"file_path"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		paths[doc.FilePath] = struct{}{}
	}
	return paths, cursor.Err()
}
