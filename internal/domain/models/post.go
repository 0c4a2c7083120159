// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost represents one Insight article. The record identity is the
// store-assigned ObjectID; the slug is the public, URL-safe identity.
//
// A nil PublishedAt marks the post as a draft regardless of CreatedAt;
// public listings only ever see posts with a non-nil PublishedAt.
type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Content     string             `bson:"content" json:"content"` // sanitized HTML
	Category    string             `bson:"category" json:"category"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	ReadTime    string             `bson:"read_time,omitempty" json:"read_time,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	VideoURL    string             `bson:"video_url,omitempty" json:"video_url,omitempty"`
	Gallery     []string           `bson:"image_gallery,omitempty" json:"image_gallery,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	PublishedAt *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// IsDraft reports whether the post is unpublished.
func (p *BlogPost) IsDraft() bool {
	return p.PublishedAt == nil
}

// Blog post categories.
const (
	CategoryNewsInsights = "news-insights"
	CategoryCaseStudies  = "case-studies"
	CategoryPodcasts     = "podcasts"
	CategoryTechTrends   = "tech-trends"
	CategoryOurWork      = "our-work"
)

// AllCategories returns the valid blog post categories.
func AllCategories() []string {
	return []string{
		CategoryNewsInsights,
		CategoryCaseStudies,
		CategoryPodcasts,
		CategoryTechTrends,
		CategoryOurWork,
	}
}

// IsValidCategory checks if a category value is one of the known categories.
func IsValidCategory(category string) bool {
	for _, c := range AllCategories() {
		if c == category {
			return true
		}
	}
	return false
}
