package badger

import "strings"

// Stop words excluded from the keyword index. Indexing them would bloat
// the posting lists without adding discriminating power.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "any": true, "such": true, "shall": true,
}

// tokenize splits text into words, lowercases, trims punctuation, and
// removes stop words
func tokenize(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// tokenCounts tallies term frequencies across the given texts.
func tokenCounts(texts ...string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, token := range tokenize(text) {
			counts[token]++
		}
	}
	return counts
}
