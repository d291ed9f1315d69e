package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("blog post not found")

// BlogPost is an article authored from the dashboard.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	ReadMinutes   int       `json:"readMinutes"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Author        string    `json:"author,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
