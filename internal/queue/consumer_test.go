package queue

import "testing"

func TestComposeNotification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   EngagementEvent
		want string
	}{
		{
			name: "rating",
			ev: EngagementEvent{
				Kind:          KindRatingReceived,
				ActorUsername: "layla",
				StoryTitle:    "The Sand Sea",
				Rating:        4,
			},
			want: `layla rated your story "The Sand Sea" 4/5`,
		},
		{
			name: "bookmark",
			ev: EngagementEvent{
				Kind:          KindBookmarkAdded,
				ActorUsername: "omar",
				StoryTitle:    "Moonlit Caravan",
			},
			want: `omar bookmarked your story "Moonlit Caravan"`,
		},
		{
			name: "vip granted",
			ev:   EngagementEvent{Kind: KindVIPGranted},
			want: "Your VIP subscription is now active. Enjoy premium stories!",
		},
		{
			name: "unknown kind",
			ev:   EngagementEvent{Kind: "comment_added"},
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComposeNotification(tt.ev); got != tt.want {
				t.Fatalf("ComposeNotification = %q, want %q", got, tt.want)
			}
		})
	}
}
