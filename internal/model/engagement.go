package model

import "time"

// Rating is one reader's score for one story. The (UserID, StoryID)
// pair is unique; resubmitting replaces the previous value instead of
// inserting a second row.
type Rating struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	StoryID   uint64    `json:"story_id"`
	Rating    int       `json:"rating"` // integer 1..5
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bookmark marks a story saved by a reader. Unique per (user, story);
// adding a duplicate is rejected with an error, not ignored.
type Bookmark struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	StoryID   uint64    `json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is a row in `notifications`, surfaced to its user in
// reverse-chronological order until marked read.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
