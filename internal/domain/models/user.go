// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an operator account for the admin area.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"` // lowercased, unique
	Name         string             `bson:"name" json:"name"`
	PasswordHash []byte             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// User roles and statuses.
const (
	RoleAdmin      = "admin"
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// DefaultSiteName is the site name rendered in layouts.
const DefaultSiteName = "Immersive"
