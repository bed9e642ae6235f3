package enrich

import (
	"regexp"
	"strings"
)

var (
	titlePattern = regexp.MustCompile(`(?i)Title:(.*)`)
	descPattern  = regexp.MustCompile(`(?i)Description:(.*)`)
)

// ParseEnrichment parses the provider's label-based output format. The format
// is an external convention, not a contract; missing labels simply leave the
// field empty and the raw text is always preserved.
func ParseEnrichment(text string) *Enrichment {
	enrichment := &Enrichment{Raw: text}

	if m := titlePattern.FindStringSubmatch(text); m != nil {
		enrichment.Title = strings.TrimSpace(m[1])
	}
	if m := descPattern.FindStringSubmatch(text); m != nil {
		enrichment.Description = strings.TrimSpace(m[1])
	}

	return enrichment
}
