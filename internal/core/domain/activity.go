package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	ActivityProduct = "product"
	ActivityUser    = "user"

	activityPerSource = 5
	activityFeedMax   = 10
)

// Activity is one entry in the dashboard's recent-activity feed.
type Activity struct {
	Type string    `json:"type"` // "product" or "user"
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// BuildActivityFeed merges the most recent products and users into a single
// feed, newest first, capped at ten entries. Both collections must be fully
// loaded before this is called; the feed is meaningless with only one of them.
func BuildActivityFeed(products []Product, users []User, now time.Time) []Activity {
	feed := make([]Activity, 0, 2*activityPerSource)

	for _, p := range products[:min(activityPerSource, len(products))] {
		t := p.CreatedAt
		if t.IsZero() {
			t = now
		}
		feed = append(feed, Activity{
			Type: ActivityProduct,
			Text: fmt.Sprintf("Product %q was added", p.Title),
			Time: t,
		})
	}

	for _, u := range users[:min(activityPerSource, len(users))] {
		name := u.Name
		if name == "" {
			name = u.Email
		}
		t := u.CreatedAt
		if t.IsZero() {
			t = now
		}
		feed = append(feed, Activity{
			Type: ActivityUser,
			Text: fmt.Sprintf("User %q signed up", name),
			Time: t,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Time.After(feed[j].Time)
	})

	if len(feed) > activityFeedMax {
		feed = feed[:activityFeedMax]
	}
	return feed
}
