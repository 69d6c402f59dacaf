package model

import "time"

// Workshop is community space owned by a single profile. Posts hang
// off a workshop.
type Workshop struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a community post inside a workshop.
type Post struct {
	ID         uint64    `json:"id"`
	WorkshopID uint64    `json:"workshop_id"`
	AuthorID   uint64    `json:"author_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Project is a private writing project visible only to its author.
type Project struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Character is a curated legendary character entry shown on the
// characters page. Created by any authenticated user, mutated by
// admins only.
type Character struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	StoryTitle  string    `json:"story_title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Competition is a hall-of-quills competition result entry.
type Competition struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	WinnerName string    `json:"winner_name"`
	StoryTitle string    `json:"story_title"`
	WinnerID   *uint64   `json:"winner_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
