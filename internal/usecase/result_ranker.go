package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/skinfridge/fridge/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Scoring bonuses
const (
	brandMatchBonus     = 15.0 // Query mentions the result brand
	substringMatchBonus = 10.0 // Query is a substring of the result title
	fuzzyWeightFactor   = 0.8  // Fuzzy token matches count for 80% of an exact one
)

// defaultSearchLimit mirrors the five results the catalog search returns
const defaultSearchLimit = 5

// RankConfig holds configuration for the result ranker
type RankConfig struct {
	Limit               int
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
}

// ResultRanker orders catalog search results by how well they match the query
type ResultRanker struct {
	limit               int
	enableFuzzyMatching bool
	fuzzyEditDistance   int
}

// rankedResult pairs a result with its score and original position
type rankedResult struct {
	result   domain.SearchResult
	score    float64
	position int
}

// NewResultRanker creates a new ranker with the given configuration
func NewResultRanker(config RankConfig) *ResultRanker {
	limit := config.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &ResultRanker{
		limit:               limit,
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
	}
}

// Rank returns the results sorted by descending score, truncated to the limit.
// Ties keep the catalog order.
func (r *ResultRanker) Rank(query string, results []domain.SearchResult) []domain.SearchResult {
	ranked := make([]rankedResult, 0, len(results))
	for i, result := range results {
		ranked = append(ranked, rankedResult{
			result:   result,
			score:    r.Score(query, result),
			position: i,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}

	out := make([]domain.SearchResult, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, item.result)
	}
	return out
}

// Score computes a 0-100 match score between a query and a search result
func (r *ResultRanker) Score(query string, result domain.SearchResult) float64 {
	title := strings.TrimSpace(result.Brand + " " + result.Name)
	queryTokens := tokenize(query)
	titleTokens := tokenize(title)

	if len(queryTokens) == 0 || len(titleTokens) == 0 {
		return 0
	}

	matched := r.countMatches(queryTokens, titleTokens)
	queryCoverage := matched / float64(len(queryTokens))
	titleCoverage := matched / float64(len(titleTokens))

	// Query coverage matters most: the user names the product they hold
	score := (queryCoverage*0.75 + titleCoverage*0.25) * 100

	queryLower := strings.ToLower(strings.TrimSpace(query))
	titleLower := strings.ToLower(title)

	if result.Brand != "" && strings.Contains(queryLower, strings.ToLower(result.Brand)) {
		score += brandMatchBonus
	}
	if len(queryLower) > 3 && strings.Contains(titleLower, queryLower) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// countMatches counts query tokens found in the title, fuzzy matches weighted down
func (r *ResultRanker) countMatches(queryTokens, titleTokens []string) float64 {
	titleSet := make(map[string]bool, len(titleTokens))
	for _, t := range titleTokens {
		titleSet[t] = true
	}

	var matched float64
	seen := make(map[string]bool)
	for _, token := range queryTokens {
		if seen[token] {
			continue
		}
		seen[token] = true

		if titleSet[token] {
			matched++
			continue
		}
		if !r.enableFuzzyMatching {
			continue
		}
		for _, candidate := range titleTokens {
			if fuzzyTokenMatch(token, candidate, r.fuzzyEditDistance) {
				matched += fuzzyWeightFactor
				break
			}
		}
	}

	return matched
}

// tokenize splits a string into lowercase tokens, dropping punctuation,
// single characters, pure numbers and noise words.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || queryNoiseWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens of 4+ chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
