// internal/domain/models/service.go
package models

import "time"

// ServiceFeature is one row of a Solution page's feature list.
type ServiceFeature struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	IconURL     string `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// ServiceTechnology is one entry of a Solution page's technology strip.
type ServiceTechnology struct {
	Name    string `bson:"name" json:"name"`
	IconURL string `bson:"icon_url" json:"icon_url"`
}

// ServiceDetail represents one Solution page. Unlike blog posts, service
// records carry no draft state; a saved record is live.
//
// The ID is a client-generated UUID string assigned at insert time. Nested
// lists are stored as BSON arrays so they round-trip without re-serialization.
type ServiceDetail struct {
	ID              string              `bson:"_id" json:"id"`
	Slug            string              `bson:"slug" json:"slug"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	HeroImage       string              `bson:"hero_image,omitempty" json:"hero_image,omitempty"`
	Overview        string              `bson:"overview,omitempty" json:"overview,omitempty"`
	Features        []ServiceFeature    `bson:"features,omitempty" json:"features,omitempty"`
	Technologies    []ServiceTechnology `bson:"technologies,omitempty" json:"technologies,omitempty"`
	GalleryImages   []string            `bson:"gallery_images,omitempty" json:"gallery_images,omitempty"`
	ServiceIcons    []string            `bson:"service_icons,omitempty" json:"service_icons,omitempty"`
	FeaturedImages  []string            `bson:"featured_images,omitempty" json:"featured_images,omitempty"`
	ThumbnailImage  string              `bson:"thumbnail_image,omitempty" json:"thumbnail_image,omitempty"`
	BackgroundImage string              `bson:"background_image,omitempty" json:"background_image,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}
