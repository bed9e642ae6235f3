package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/ideacomb/idea-comb/app/analyzer"
	"github.com/ideacomb/idea-comb/app/reddit"
)

func newTestEngine() *Engine {
	return NewEngine(analyzer.NewAnalyzer(), DefaultThresholds())
}

func TestEngine_Score_HighSignalPostClampsAt100(t *testing.T) {
	e := newTestEngine()

	sentence := "Our startup is a saas product for the b2b market with real revenue and fresh funding from an investor. "
	body := strings.Repeat(sentence, 6) // comfortably above 500 characters
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	post := reddit.Post{
		Title:        "Looking for SaaS feedback",
		Body:         body,
		Upvotes:      120,
		CommentCount: 30,
		CreatedAt:    now.Add(-48 * time.Hour),
	}

	summary := e.Score(post, now)

	if summary.Engagement != 150 {
		t.Errorf("Expected engagement 150, got %d", summary.Engagement)
	}
	if summary.Confidence != 100 {
		t.Errorf("Expected confidence clamped at 100, got %d", summary.Confidence)
	}
	if len(summary.Keywords) != 5 {
		t.Errorf("Expected 5 display keywords, got %d (%v)", len(summary.Keywords), summary.Keywords)
	}
	if summary.AgeDays != 2 {
		t.Errorf("Expected age 2 days, got %d", summary.AgeDays)
	}
}

func TestEngine_Score_EmptyPostScoresZero(t *testing.T) {
	e := newTestEngine()

	summary := e.Score(reddit.Post{}, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	if summary.Confidence != 0 {
		t.Errorf("Expected confidence 0 for an empty post, got %d", summary.Confidence)
	}
	if len(summary.Keywords) != 0 {
		t.Errorf("Expected no keywords, got %v", summary.Keywords)
	}
	if summary.Engagement != 0 {
		t.Errorf("Expected engagement 0, got %d", summary.Engagement)
	}
}

func TestEngine_Confidence_Bands(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		engagement int
		keywords   int
		length     int
		want       int
	}{
		{"all zero", 0, 0, 0, 0},
		{"engagement just above lowest band", 11, 0, 0, 10},
		{"engagement top band", 101, 0, 0, 40},
		{"keyword middle band", 0, 4, 0, 20},
		{"keyword top band", 0, 6, 0, 30},
		{"length lowest band", 0, 0, 101, 10},
		{"length top band", 0, 0, 501, 30},
		{"boundaries are exclusive", 100, 5, 500, 30 + 20 + 20},
		{"everything maxed", 1000, 20, 5000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.confidence(tt.engagement, tt.keywords, tt.length)
			if got != tt.want {
				t.Errorf("confidence(%d, %d, %d) = %d, want %d",
					tt.engagement, tt.keywords, tt.length, got, tt.want)
			}
		})
	}
}

func TestEngine_Confidence_Monotonic(t *testing.T) {
	e := newTestEngine()

	values := []int{0, 5, 11, 21, 51, 101, 200, 501, 1000}

	for _, fixed := range values {
		prev := -1
		for _, v := range values {
			got := e.confidence(v, fixed, fixed)
			if got < prev {
				t.Errorf("confidence not monotonic in engagement at %d: %d < %d", v, got, prev)
			}
			prev = got
		}

		prev = -1
		for _, v := range values {
			got := e.confidence(fixed, v, fixed)
			if got < prev {
				t.Errorf("confidence not monotonic in keyword count at %d: %d < %d", v, got, prev)
			}
			prev = got
		}

		prev = -1
		for _, v := range values {
			got := e.confidence(fixed, fixed, v)
			if got < prev {
				t.Errorf("confidence not monotonic in body length at %d: %d < %d", v, got, prev)
			}
			prev = got
		}
	}
}

func TestEngine_Score_ConfidenceAlwaysInRange(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	posts := []reddit.Post{
		{},
		{Title: "startup", Body: strings.Repeat("startup saas founder ", 100), Upvotes: 100000},
		{Title: "hello", Body: "short", Upvotes: -5, CommentCount: -3},
	}

	for i, post := range posts {
		summary := e.Score(post, now)
		if summary.Confidence < 0 || summary.Confidence > 100 {
			t.Errorf("Post %d: confidence %d out of [0,100]", i, summary.Confidence)
		}
	}
}

func TestSummaryTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			"short title unchanged",
			"Looking for SaaS feedback",
			"Looking for SaaS feedback",
		},
		{
			"long title with ten words gets truncated to eight",
			"one two three four five six seven eight nine ten padding padding",
			"one two three four five six seven eight...",
		},
		{
			"long title with few words unchanged",
			"Supercalifragilisticexpialidocious antidisestablishmentarianism pneumonoultramicroscopic",
			"Supercalifragilisticexpialidocious antidisestablishmentarianism pneumonoultramicroscopic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryTitle(tt.title); got != tt.want {
				t.Errorf("summaryTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestEngine_Description_Assembly(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	post := reddit.Post{
		Title:        "Scaling our marketplace",
		Body:         "We are scaling our marketplace startup and need advice on funding rounds and growth.",
		Upvotes:      40,
		CommentCount: 15,
		CreatedAt:    now.Add(-30 * time.Hour),
	}

	summary := e.Score(post, now)

	parts := strings.Split(summary.Description, descriptionSep)
	if len(parts) != 4 {
		t.Fatalf("Expected 4 description parts, got %d: %q", len(parts), summary.Description)
	}
	if parts[0] != "🔥 55 total engagement" {
		t.Errorf("Unexpected engagement phrase: %q", parts[0])
	}
	if parts[1] != "📅 Posted yesterday" {
		t.Errorf("Unexpected age phrase: %q", parts[1])
	}
	if !strings.HasPrefix(parts[2], "🏷️ Keywords: ") {
		t.Errorf("Unexpected keywords phrase: %q", parts[2])
	}
	if !strings.HasPrefix(parts[3], "💡 ") {
		t.Errorf("Unexpected preview phrase: %q", parts[3])
	}
}

func TestEngine_Description_AgePhrases(t *testing.T) {
	e := newTestEngine()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{2 * time.Hour, "📅 Posted today"},
		{26 * time.Hour, "📅 Posted yesterday"},
		{5 * 24 * time.Hour, "📅 5 days ago"},
	}

	for _, tt := range tests {
		summary := e.Score(reddit.Post{CreatedAt: now.Add(-tt.age)}, now)
		if !strings.Contains(summary.Description, tt.want) {
			t.Errorf("Expected description to contain %q, got %q", tt.want, summary.Description)
		}
	}
}

func TestEngine_Description_LongBodyTruncated(t *testing.T) {
	e := newTestEngine()

	body := strings.Repeat("x", 150)
	summary := e.Score(reddit.Post{Body: body}, time.Now())

	if !strings.HasSuffix(summary.Description, "...") {
		t.Errorf("Expected truncated preview with ellipsis, got %q", summary.Description)
	}
	if strings.Contains(summary.Description, strings.Repeat("x", 101)) {
		t.Error("Preview longer than 100 characters")
	}
}

func TestEngine_Description_TinyPreviewOmitted(t *testing.T) {
	e := newTestEngine()

	summary := e.Score(reddit.Post{Body: "too short"}, time.Now())

	if strings.Contains(summary.Description, "💡") {
		t.Errorf("Expected no preview part for a tiny body, got %q", summary.Description)
	}
}

func TestInVocabulary_MatchesStems(t *testing.T) {
	a := analyzer.NewAnalyzer()

	// Stems of vocabulary words must resolve to vocabulary stems; otherwise
	// a post about "customers" would never count as a domain match.
	for _, word := range []string{"startups", "customers", "marketplaces", "founders"} {
		keywords := a.Keywords(word + " " + word + " " + word + " " + word)
		if len(keywords) == 0 {
			t.Fatalf("No keywords extracted from %q", word)
		}
		if !InVocabulary(keywords[0]) {
			t.Errorf("Stem %q of %q not recognized as vocabulary", keywords[0], word)
		}
	}
}
