package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bbalet/stopwords"

	"github.com/vishnutej000/memories/internal/chat"
)

const minKeywordLength = 3

// ExtractKeywords ranks token frequencies across all text-type content.
// Stopwords are stripped first; surviving tokens must be lowercase
// alphabetic and at least three runes long.
func ExtractKeywords(messages []chat.Message, limit int) chat.KeywordAnalysis {
	counts := make(map[string]int)
	totalWords := 0

	for _, m := range messages {
		if m.Type != chat.TypeText {
			continue
		}
		cleaned := stopwords.CleanString(m.Content, "en", false)
		for _, tok := range strings.Fields(cleaned) {
			if utf8.RuneCountInString(tok) < minKeywordLength || !isAlphabetic(tok) {
				continue
			}
			counts[tok]++
			totalWords++
		}
	}

	ranked := make([]chat.KeywordItem, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, chat.KeywordItem{Word: word, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return chat.KeywordAnalysis{Keywords: ranked, TotalWords: totalWords}
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
