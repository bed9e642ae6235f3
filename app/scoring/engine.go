package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideacomb/idea-comb/app/analyzer"
	"github.com/ideacomb/idea-comb/app/reddit"
)

const (
	maxTitleLength   = 60
	maxTitleWords    = 8
	previewLength    = 100
	minPreviewLength = 20
	displayKeywords  = 5
	descriptionSep   = " • "
)

// Summary is the scored, human-readable digest of a post. Confidence is
// always in [0,100] and is a pure function of engagement, domain-keyword
// count, and body length.
type Summary struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Confidence  int      `json:"confidence"`
	Engagement  int      `json:"engagement"`
	AgeDays     int      `json:"age_days"`
}

// Thresholds hold the confidence band cutoffs. The defaults are hand-tuned
// values carried over from the original scoring model; they are kept
// configurable rather than re-derived.
type Thresholds struct {
	Engagement [4]int // >t[0]:40, >t[1]:30, >t[2]:20, >t[3]:10
	Keywords   [3]int // >t[0]:30, >t[1]:20, >t[2]:10
	Length     [3]int // >t[0]:30, >t[1]:20, >t[2]:10
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Engagement: [4]int{100, 50, 20, 10},
		Keywords:   [3]int{5, 3, 1},
		Length:     [3]int{500, 200, 100},
	}
}

// Engine turns posts into summaries. No network access; total over any
// well-formed post (missing numerics are treated as zero, never an error).
type Engine struct {
	analyzer   *analyzer.Analyzer
	thresholds Thresholds
}

func NewEngine(a *analyzer.Analyzer, thresholds Thresholds) *Engine {
	return &Engine{
		analyzer:   a,
		thresholds: thresholds,
	}
}

// Score computes the summary of a post at the given evaluation time. For
// identical inputs and identical now the result is fully reproducible.
func (e *Engine) Score(post reddit.Post, now time.Time) Summary {
	engagement := post.Upvotes + post.CommentCount

	ageDays := 0
	if !post.CreatedAt.IsZero() && now.After(post.CreatedAt) {
		ageDays = int(now.Sub(post.CreatedAt) / (24 * time.Hour))
	}

	domainKeywords := e.domainKeywords(post.Title, post.Body)

	display := domainKeywords
	if len(display) > displayKeywords {
		display = display[:displayKeywords]
	}

	return Summary{
		Title:       summaryTitle(post.Title),
		Description: e.description(post.Body, engagement, ageDays, domainKeywords),
		Keywords:    display,
		Confidence:  e.confidence(engagement, len(domainKeywords), len(post.Body)),
		Engagement:  engagement,
		AgeDays:     ageDays,
	}
}

// domainKeywords is the union of title and body keywords, restricted to the
// startup vocabulary, in extraction order.
func (e *Engine) domainKeywords(title, body string) []string {
	keywords := append(e.analyzer.Keywords(title), e.analyzer.Keywords(body)...)

	domain := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if InVocabulary(kw) {
			domain = append(domain, kw)
		}
	}
	return domain
}

// confidence sums three independently capped bands and clamps the total to
// 100. Each band is monotonically non-decreasing in its input.
func (e *Engine) confidence(engagement, keywordCount, bodyLength int) int {
	score := 0

	switch {
	case engagement > e.thresholds.Engagement[0]:
		score += 40
	case engagement > e.thresholds.Engagement[1]:
		score += 30
	case engagement > e.thresholds.Engagement[2]:
		score += 20
	case engagement > e.thresholds.Engagement[3]:
		score += 10
	}

	switch {
	case keywordCount > e.thresholds.Keywords[0]:
		score += 30
	case keywordCount > e.thresholds.Keywords[1]:
		score += 20
	case keywordCount > e.thresholds.Keywords[2]:
		score += 10
	}

	switch {
	case bodyLength > e.thresholds.Length[0]:
		score += 30
	case bodyLength > e.thresholds.Length[1]:
		score += 20
	case bodyLength > e.thresholds.Length[2]:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (e *Engine) description(body string, engagement, ageDays int, domainKeywords []string) string {
	parts := make([]string, 0, 4)

	if engagement > 0 {
		parts = append(parts, fmt.Sprintf("🔥 %d total engagement", engagement))
	}

	switch ageDays {
	case 0:
		parts = append(parts, "📅 Posted today")
	case 1:
		parts = append(parts, "📅 Posted yesterday")
	default:
		parts = append(parts, fmt.Sprintf("📅 %d days ago", ageDays))
	}

	if len(domainKeywords) > 0 {
		shown := domainKeywords
		if len(shown) > 3 {
			shown = shown[:3]
		}
		parts = append(parts, "🏷️ Keywords: "+strings.Join(shown, ", "))
	}

	if preview := bodyPreview(body); preview != "" {
		parts = append(parts, "💡 "+preview)
	}

	return strings.Join(parts, descriptionSep)
}

func bodyPreview(body string) string {
	preview := body
	truncated := false
	if runes := []rune(body); len(runes) > previewLength {
		preview = string(runes[:previewLength])
		truncated = true
	}
	preview = strings.TrimSpace(preview)

	if len(preview) <= minPreviewLength {
		return ""
	}
	if truncated {
		preview += "..."
	}
	return preview
}

// summaryTitle passes short titles through unchanged and shortens long ones
// to their first eight words.
func summaryTitle(title string) string {
	if len(title) <= maxTitleLength {
		return title
	}

	words := strings.Fields(title)
	if len(words) <= maxTitleWords {
		return title
	}

	return strings.Join(words[:maxTitleWords], " ") + "..."
}
