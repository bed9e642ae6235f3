package config

import (
	"strings"

	"github.com/ideacomb/idea-comb/app/reddit"
)

// Filterer applies a source's keyword filters to fetched posts before they
// enter scoring. A post is dropped when any exclude pattern matches, or when
// includes are configured and none match.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(posts []reddit.Post, filters []SourceFilter) []reddit.Post {
	if len(filters) == 0 {
		return posts
	}

	kept := make([]reddit.Post, 0, len(posts))
	for _, post := range posts {
		if f.excluded(post, filters) {
			continue
		}
		kept = append(kept, post)
	}

	return kept
}

func (f *Filterer) excluded(post reddit.Post, filters []SourceFilter) bool {
	for _, filter := range filters {
		value := f.fieldValue(post, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matches(value, exclude) {
				return true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matches(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true
			}
		}
	}

	return false
}

func (f *Filterer) matches(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) fieldValue(post reddit.Post, field string) string {
	switch field {
	case "title":
		return post.Title
	case "body":
		return post.Body
	case "author":
		return post.Author
	default:
		return ""
	}
}
