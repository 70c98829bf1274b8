package transcript

import (
	"regexp"
	"strings"
	"time"
)

var (
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)
	idPattern   = regexp.MustCompile(`^[\p{L}\p{N}]+(-[\p{L}\p{N}]+)+$`)
)

// GenerateName builds a transcript name from a session title.
// Format: YYYYMMDD-title-keywords (e.g., "20260129-gaming-pc-build").
// Without usable keywords the name is YYYYMMDD-mission.
func GenerateName(title string, now time.Time) string {
	timestamp := now.Format("20060102")

	keywords := extractKeywords(title)
	if len(keywords) == 0 {
		return timestamp + "-mission"
	}

	// Limit to 4 keywords for reasonable length
	if len(keywords) > 4 {
		keywords = keywords[:4]
	}
	return timestamp + "-" + strings.Join(keywords, "-")
}

// extractKeywords extracts meaningful keywords from a title
func extractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	var keywords []string
	seen := make(map[string]bool)
	for _, word := range words {
		if len([]rune(word)) < 2 || isStopWord(word) || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

var stopWords = map[string]bool{
	"an": true, "the": true, "and": true, "or": true, "to": true,
	"for": true, "of": true, "in": true, "on": true, "with": true,
	"is": true, "are": true, "be": true, "do": true, "can": true,
	"this": true, "that": true, "you": true, "it": true, "my": true,
	"your": true, "what": true, "which": true, "how": true, "me": true,
	"please": true, "help": true, "want": true, "need": true,
}

// isStopWord checks if a word is a common English stop word
func isStopWord(word string) bool {
	return stopWords[word]
}

// ValidateID checks if a transcript ID is a lowercase hyphenated name.
func ValidateID(id string) bool {
	return id == strings.ToLower(id) && idPattern.MatchString(id)
}
