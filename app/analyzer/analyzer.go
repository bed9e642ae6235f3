package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxKeywords caps the number of keywords returned per text.
const MaxKeywords = 10

const minTokenLength = 4

// foldDiacritics strips combining marks so "café" and "cafe" tokenize alike.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Analyzer extracts salient keywords from free text. It is a pure function of
// its input: no state, no I/O, same text always yields the same sequence.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Keywords tokenizes text and returns up to MaxKeywords stemmed tokens ranked
// by descending frequency, ties broken by first occurrence. Tokens shorter
// than four characters, stop words, and tokens containing non-alphabetic
// characters are discarded, both before and after stemming.
func (a *Analyzer) Keywords(text string) []string {
	if text == "" {
		return nil
	}

	stems := a.stems(text)
	if len(stems) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(stems))
	for _, stem := range stems {
		if counts[stem] == 0 {
			order = append(order, stem)
		}
		counts[stem]++
	}

	// Stable sort over first-occurrence order gives the deterministic
	// tie-break.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

func (a *Analyzer) stems(text string) []string {
	folded, _, err := transform.String(foldDiacritics, text)
	if err != nil {
		folded = text
	}

	tokens := tokenize(strings.ToLower(folded))

	stems := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) < minTokenLength || IsStopWord(token) || !isAlphabetic(token) {
			continue
		}

		stem := english.Stem(token, false)

		// Stemming can shorten a token below the cutoff or collapse it
		// onto a stop word; those stems are dropped as well.
		if len(stem) < minTokenLength || IsStopWord(stem) {
			continue
		}
		stems = append(stems, stem)
	}

	return stems
}

// tokenize splits on word boundaries: runs of letters and digits form tokens,
// everything else separates them.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func isAlphabetic(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
