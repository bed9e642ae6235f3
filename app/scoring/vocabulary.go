package scoring

import (
	"github.com/kljensen/snowball/english"
)

// startupVocabulary lists the business/startup terms keyword extraction is
// biased toward. Matching happens on stems, so the vocabulary is stemmed once
// at init and compared against stemmed keywords.
var startupVocabulary = []string{
	"startup", "business", "company", "product", "service", "market",
	"customer", "revenue", "profit", "funding", "investor", "venture",
	"capital", "entrepreneur", "founder", "cofounder", "ceo", "cto",
	"saas", "app", "platform", "software", "mobile", "web", "api", "ai",
	"ml", "data", "analytics", "ecommerce", "marketplace", "subscription",
	"freemium", "b2b", "b2c", "pivot", "scale", "growth", "acquisition",
	"exit", "ipo", "unicorn", "bootstrapped", "accelerator", "incubator",
}

var vocabularyStems = buildVocabularyStems()

func buildVocabularyStems() map[string]bool {
	stems := make(map[string]bool, len(startupVocabulary))
	for _, word := range startupVocabulary {
		stems[english.Stem(word, false)] = true
	}
	return stems
}

// InVocabulary reports whether a stemmed keyword belongs to the startup
// vocabulary.
func InVocabulary(stem string) bool {
	return vocabularyStems[stem]
}
