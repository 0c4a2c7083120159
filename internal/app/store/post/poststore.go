// Package post provides storage for blog posts.
package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Store provides access to the posts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new post store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("posts"),
	}
}

// CreateInput contains the input for creating a post.
type CreateInput struct {
	Slug        string
	Title       string
	Author      string
	Excerpt     string
	Content     string
	Category    string
	Tags        []string
	ReadTime    string
	ImageURL    string
	VideoURL    string
	Gallery     []string
	PublishedAt *time.Time
}

// Create creates a new post record.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.BlogPost, error) {
	post := models.BlogPost{
		ID:          primitive.NewObjectID(),
		Slug:        input.Slug,
		Title:       input.Title,
		Author:      input.Author,
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		Category:    input.Category,
		Tags:        input.Tags,
		ReadTime:    input.ReadTime,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
		Gallery:     input.Gallery,
		CreatedAt:   time.Now().UTC(),
		PublishedAt: input.PublishedAt,
	}

	if _, err := s.c.InsertOne(ctx, post); err != nil {
		return nil, err
	}

	return &post, nil
}

// GetByID retrieves a post by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateInput contains the input for updating a post. Nil fields are left
// unchanged.
type UpdateInput struct {
	Slug     *string
	Title    *string
	Author   *string
	Excerpt  *string
	Content  *string
	Category *string
	Tags     *[]string
	ReadTime *string
	ImageURL *string
	VideoURL *string
	Gallery  *[]string
}

// Update updates a post.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{}

	if input.Slug != nil {
		set["slug"] = *input.Slug
	}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Author != nil {
		set["author"] = *input.Author
	}
	if input.Excerpt != nil {
		set["excerpt"] = *input.Excerpt
	}
	if input.Content != nil {
		set["content"] = *input.Content
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Tags != nil {
		set["tags"] = *input.Tags
	}
	if input.ReadTime != nil {
		set["read_time"] = *input.ReadTime
	}
	if input.ImageURL != nil {
		set["image_url"] = *input.ImageURL
	}
	if input.VideoURL != nil {
		set["video_url"] = *input.VideoURL
	}
	if input.Gallery != nil {
		set["image_gallery"] = *input.Gallery
	}

	if len(set) == 0 {
		return nil
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetPublished sets or clears the publish timestamp. Pass nil to move a
// post back to draft.
func (s *Store) SetPublished(ctx context.Context, id primitive.ObjectID, publishedAt *time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"published_at": publishedAt}})
	return err
}

// Delete deletes a post record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns all posts, newest first. Content is excluded: the admin list
// only needs metadata and post bodies can be large.
func (s *Store) List(ctx context.Context) ([]models.BlogPost, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"content": 0})

	cursor, err := s.c.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublished returns published posts, most recently published first.
// Unlike List, bodies are included: the public listing's search matches
// over them.
func (s *Store) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	filter := bson.M{"published_at": bson.M{"$ne": nil}}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}})

	cursor, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SlugExists checks if a post with the given slug exists.
// Pass excludeID to exclude a specific post (useful for updates).
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of posts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
