// Package user provides storage for admin accounts.
package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/auth"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/normalize"
	"github.com/JamesMorphed/immersive-agency-sub000/internal/domain/models"
)

// Store provides access to the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new user store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("users"),
	}
}

// CreateInput contains the input for creating a user.
type CreateInput struct {
	Email        string
	Name         string
	PasswordHash []byte
	Role         string
}

// Create creates a new user record. The email is normalized before storage.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(input.Email),
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		Role:         normalize.Role(input.Role),
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return nil, err
	}

	return &u, nil
}

// GetByID retrieves a user by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPasswordHash replaces a user's password hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash []byte) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// EnsureAdmin creates the seed admin account if no user exists with the
// given email. Returns the existing or newly created user. Called at
// startup so a fresh deployment is immediately usable.
func (s *Store) EnsureAdmin(ctx context.Context, email, name string, passwordHash []byte) (*models.User, bool, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	created, err := s.Create(ctx, CreateInput{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// FetchUser implements auth.UserFetcher. It returns nil for unknown,
// disabled, or malformed IDs so stale sessions are invalidated.
func (s *Store) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	u, err := s.GetByID(ctx, oid)
	if err != nil {
		return nil
	}
	if u.Status != models.StatusActive {
		return nil
	}

	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
