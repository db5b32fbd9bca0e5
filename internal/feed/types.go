// Package feed retrieves a category's content stream through a chain of public
// RSS proxy strategies, falling back to bundled items when every strategy fails.
package feed

import "time"

// Item is a single entry of a content feed. Identity is the GUID; items are
// immutable once produced and replaced wholesale on re-fetch.
type Item struct {
	Title   string
	Link    string
	PubDate time.Time
	Source  string
	GUID    string
	Snippet string
}

// Category maps a display label to its feed source URL.
type Category struct {
	ID      string
	Label   string
	FeedURL string
}

// Categories is the fixed set of content categories.
var Categories = []Category{
	{ID: "WORLD", Label: "World", FeedURL: "https://news.google.com/rss/headlines/section/topic/WORLD"},
	{ID: "NATION", Label: "Politics", FeedURL: "https://news.google.com/rss/headlines/section/topic/NATION"},
	{ID: "BUSINESS", Label: "Economy", FeedURL: "https://news.google.com/rss/headlines/section/topic/BUSINESS"},
	{ID: "TECHNOLOGY", Label: "Sci/Tech", FeedURL: "https://news.google.com/rss/headlines/section/topic/TECHNOLOGY"},
	{ID: "EDUCATION", Label: "Education", FeedURL: "https://news.google.com/rss/search?q=Education+News&hl=en-US&gl=US&ceid=US:en"},
	{ID: "HEALTH", Label: "Health", FeedURL: "https://news.google.com/rss/headlines/section/topic/HEALTH"},
	{ID: "SCIENCE", Label: "Environment", FeedURL: "https://news.google.com/rss/headlines/section/topic/SCIENCE"},
	{ID: "ENTERTAINMENT", Label: "Culture", FeedURL: "https://news.google.com/rss/headlines/section/topic/ENTERTAINMENT"},
	{ID: "SPORTS", Label: "Sports", FeedURL: "https://news.google.com/rss/headlines/section/topic/SPORTS"},
}

// CategoryByID looks up a category by its identifier.
func CategoryByID(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
