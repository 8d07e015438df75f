package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxQueryLength caps the query sent to the catalog search
const maxQueryLength = 100

// QueryPreprocessor cleans what the user typed into the search bar before it
// is sent to the catalog search
type QueryPreprocessor struct {
	logger *zap.Logger
}

// Compiled regex patterns for query preprocessing
var (
	// Matches volume/weight patterns like "50ml", "1.7 fl oz", "30 g", "100 mL"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(fl\.?\s*oz|oz|ml|l|g|mg|grams?|ounces?)\b`)

	// Matches pack/count patterns like "2 pack", "set of 3", "3-pack", "60 count"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct|pcs|pieces?)\b|\b(pack|set)\s*of\s*\d+\b`)

	// Matches standalone numbers with no unit at the edges (e.g., ", 2", "- 12")
	standaloneNumberPattern = regexp.MustCompile(`[,\-]\s*\d+\.?\d*\s*$|^\d+\.?\d*\s*[,\-]`)

	orphanedInnerPunctuation    = regexp.MustCompile(`\s+[,\-;:]+\s+`)
	orphanedTrailingPunctuation = regexp.MustCompile(`[,\-;:]+\s*$`)
	orphanedLeadingPunctuation  = regexp.MustCompile(`^\s*[,\-;:]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are retail and packaging terms that do not help the catalog search
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"new":        true,
	"improved":   true,
	"limited":    true,
	"edition":    true,
	"bestseller": true,

	// Size descriptors
	"mini":   true,
	"travel": true,
	"full":   true,
	"size":   true,
	"jumbo":  true,
	"value":  true,

	// Packaging terms
	"bottle": true,
	"tube":   true,
	"jar":    true,
	"pump":   true,
	"refill": true,
	"pack":   true,
	"set":    true,
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{logger: logger}
}

// Clean normalises a search query. Pasted product URLs are returned trimmed
// but otherwise untouched. An empty result means there is nothing to search for.
func (p *QueryPreprocessor) Clean(query string) string {
	original := query
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	if isProductURL(query) {
		return query
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(query, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = cleanOrphanedPunctuation(cleaned)
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// a query made only of sizes or noise words is still searched as typed
	if cleaned == "" {
		cleaned = strings.ToLower(multiSpacePattern.ReplaceAllString(query, " "))
	}

	cleaned = truncateQuery(cleaned)

	p.logger.Debug("preprocessed search query",
		zap.String("input", original),
		zap.String("output", cleaned))

	return cleaned
}

// truncateQuery cuts s to maxQueryLength bytes on a rune boundary,
// preferring a word boundary in the second half
func truncateQuery(s string) string {
	if len(s) <= maxQueryLength {
		return s
	}

	cut := maxQueryLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	s = s[:cut]

	if lastSpace := strings.LastIndex(s, " "); lastSpace > maxQueryLength/2 {
		s = s[:lastSpace]
	}
	return s
}

// isProductURL reports whether the input is a pasted product page link
func isProductURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// removeNoiseWords lowercases the query and drops packaging and marketing terms
func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))

	for _, word := range words {
		cleanWord := strings.Trim(word, ",.!?;:-'\"")
		if !queryNoiseWords[cleanWord] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}

// cleanOrphanedPunctuation removes punctuation left alone after the removals above
func cleanOrphanedPunctuation(s string) string {
	result := orphanedInnerPunctuation.ReplaceAllString(s, " ")
	result = orphanedTrailingPunctuation.ReplaceAllString(result, "")
	return orphanedLeadingPunctuation.ReplaceAllString(result, "")
}
