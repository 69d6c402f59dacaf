// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published on the engagement queue.
const (
	KindRatingReceived = "rating_received"
	KindBookmarkAdded  = "bookmark_added"
	KindVIPGranted     = "vip_granted"
)

// EngagementEvent is published when a reader interacts with a story or
// a VIP code is redeemed. It carries enough for downstream consumers
// to write notifications without querying the primary database.
type EngagementEvent struct {
	Kind          string `json:"kind"`
	RecipientID   uint64 `json:"recipient_id"`
	ActorID       uint64 `json:"actor_id,omitempty"`
	ActorUsername string `json:"actor_username,omitempty"`
	StoryID       uint64 `json:"story_id,omitempty"`
	StoryTitle    string `json:"story_title,omitempty"`
	Rating        int    `json:"rating,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
