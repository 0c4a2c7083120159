// internal/domain/models/icon.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IconAsset is the catalog entry for one icon binary in object storage.
//
// Storage is the source of truth for existence; this collection is a derived
// catalog keyed by (name, folder) and can be resynchronized from a storage
// listing at any time.
type IconAsset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Folder      string             `bson:"folder" json:"folder"`
	FilePath    string             `bson:"file_path" json:"file_path"`
	PublicURL   string             `bson:"public_url" json:"public_url"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	ContentType string             `bson:"content_type,omitempty" json:"content_type,omitempty"`
	FileSize    int64              `bson:"file_size,omitempty" json:"file_size,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Icon folders (style variants).
const (
	IconFolderWhite    = "white"
	IconFolderGradient = "gradient"
	IconFolderBlack    = "black"
)

// AllIconFolders returns the valid icon folders.
func AllIconFolders() []string {
	return []string{IconFolderWhite, IconFolderGradient, IconFolderBlack}
}

// IsValidIconFolder checks if a folder value is one of the known folders.
func IsValidIconFolder(folder string) bool {
	for _, f := range AllIconFolders() {
		if f == folder {
			return true
		}
	}
	return false
}
