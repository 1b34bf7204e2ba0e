package core

import "encoding/json"

// User represents one subscriber record in the preference store.
// The preference columns arrive in whatever shape the store returns
// (native array, JSON-encoded string, bare scalar), so they are kept
// raw here and canonicalized by prefs.Normalize at the boundary.
type User struct {
	PhoneNumber string          `json:"phone_number"` // Primary key, stable for the record's lifetime
	Topics      json.RawMessage `json:"topics,omitempty"`
	Sources     json.RawMessage `json:"sources,omitempty"`
	UpdateTimes json.RawMessage `json:"update_times,omitempty"`
}

// Article represents one news item returned by the news API.
type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	URL         string        `json:"url"`
	Source      ArticleSource `json:"source"`
}

// ArticleSource identifies the outlet an article came from.
type ArticleSource struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}
