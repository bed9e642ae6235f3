package reddit

import (
	"time"
)

// Mode selects the subreddit listing to fetch.
type Mode string

const (
	ModeHot Mode = "hot"
	ModeNew Mode = "new"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeHot, ModeNew:
		return Mode(s), true
	case "":
		return ModeHot, true
	default:
		return "", false
	}
}

// Post is a normalized text post as it enters the pipeline. Immutable once
// fetched; carries no cross-call identity beyond ID.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Subreddit    string    `json:"subreddit"`
	Author       string    `json:"author"`
	Upvotes      int       `json:"upvotes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	Permalink    string    `json:"permalink"`
	IsVideo      bool      `json:"is_video"`
	MediaURL     string    `json:"media_url,omitempty"`
}

// Page is one page of a subreddit listing. NextCursor is the opaque "after"
// token for the following page, empty when the listing is exhausted.
type Page struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"next_cursor,omitempty"`
}
