package model

import "time"

// Story represents a published or draft work in the `stories` table.
// Content may embed a "[PDF_CHAPTER:<url>]" marker when the body was
// uploaded as a PDF instead of typed text. AverageRating and
// RatingCount are derived columns, recomputed in full after every
// rating write rather than maintained incrementally.
//
// Fields:
//  ID            – primary key identifier.
//  AuthorID      – owner reference into profiles; gates every mutation.
//  Title         – story title (required on create).
//  Description   – short blurb shown in listings.
//  Content       – full text, possibly a PDF marker.
//  CoverImage    – hosted cover URL.
//  PDFURL        – hosted PDF when the story was uploaded as a document.
//  Placement     – home shelf the story belongs to (gems, workshops, ...).
//  Genre         – free-form genre label.
//  IsPremium     – visible to VIP/premium readers only.
//  IsShortStory  – single-sitting flag used by listing filters.
//  IsPublished   – draft until set; public listings filter on it.
//  IsFeatured    – admin curated highlight flag.
//  AverageRating – arithmetic mean of all ratings (0 when unrated).
//  RatingCount   – number of rating rows backing AverageRating.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Story struct {
	ID            uint64    `json:"id"`
	AuthorID      uint64    `json:"author_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	CoverImage    string    `json:"cover_image"`
	PDFURL        string    `json:"pdf_url,omitempty"`
	Placement     string    `json:"placement,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	IsPremium     bool      `json:"is_premium"`
	IsShortStory  bool      `json:"is_short_story"`
	IsPublished   bool      `json:"is_published"`
	IsFeatured    bool      `json:"is_featured"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   uint32    `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Chapter is a row in `story_chapters`. Chapters are read in
// ascending ChapterOrder; the order is unique within a story.
type Chapter struct {
	ID           uint64    `json:"id"`
	StoryID      uint64    `json:"story_id"`
	ChapterTitle string    `json:"chapter_title"`
	ChapterOrder int       `json:"chapter_order"`
	ContentURL   string    `json:"content_url"`
	ContentType  string    `json:"content_type"` // "pdf" or "text"
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comic mirrors Story minus chapters and derived rating columns.
type Comic struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url"`
	IsPremium   bool      `json:"is_premium"`
	IsPublished bool      `json:"is_published"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
