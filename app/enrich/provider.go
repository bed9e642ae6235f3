package enrich

import (
	"context"
)

// Enrichment is the parsed output of the provider's summary call. Raw keeps
// the unparsed text for callers that want it.
type Enrichment struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Raw         string `json:"raw,omitempty"`
}

// Solution is a generated startup solution outline for a post.
type Solution struct {
	Solution string `json:"solution"`
}

// Provider generates free-form enrichment text for a post. Implementations
// call an external generative service; the scoring pipeline never depends on
// a Provider being configured or available.
type Provider interface {
	Summarize(ctx context.Context, title, body string) (*Enrichment, error)
	Solve(ctx context.Context, title, body string) (*Solution, error)
}
