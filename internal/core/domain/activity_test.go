package domain

import (
	"testing"
	"time"
)

func TestBuildActivityFeedMergesNewestFirst(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	products := make([]Product, 7)
	for i := range products {
		products[i] = Product{
			Title:     "Product",
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}
	users := make([]User, 7)
	for i := range users {
		users[i] = User{
			Name:      "User",
			CreatedAt: now.Add(-time.Duration(i)*time.Hour - 30*time.Minute),
		}
	}

	feed := BuildActivityFeed(products, users, now)

	if len(feed) != 10 {
		t.Fatalf("feed length = %d, want 10", len(feed))
	}
	// Only the first five of each source may contribute.
	for i := 1; i < len(feed); i++ {
		if feed[i].Time.After(feed[i-1].Time) {
			t.Fatalf("feed out of order at %d: %v after %v", i, feed[i].Time, feed[i-1].Time)
		}
	}
	if feed[0].Type != ActivityProduct {
		t.Fatalf("newest entry should be a product, got %s", feed[0].Type)
	}
}

func TestBuildActivityFeedHandlesMissingTimestamps(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	products := []Product{{Title: "Undated"}}
	users := []User{{Name: "Early", CreatedAt: now.Add(-48 * time.Hour)}}

	feed := BuildActivityFeed(products, users, now)

	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	// The undated product falls back to now and therefore leads the feed.
	if feed[0].Type != ActivityProduct || !feed[0].Time.Equal(now) {
		t.Fatalf("undated entry not normalized: %+v", feed[0])
	}
}

func TestBuildActivityFeedShortCollections(t *testing.T) {
	feed := BuildActivityFeed(nil, []User{{Name: "Solo"}}, time.Now())
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
}
