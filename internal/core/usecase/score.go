package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

const (
	overlapScale     = 10.0
	titleHitBonus    = 8.0
	bigramBonus      = 1.5
	sourceTrustBonus = 2.0
)

// DefaultBoosts is the built-in document-type keyword boost table,
// overridable through configuration so scoring stays a pure function
// of its inputs.
func DefaultBoosts() map[string]float64 {
	return map[string]float64{
		"inspection": 2.0,
		"reactor":    1.5,
		"safety":     1.0,
	}
}

// Scorer assigns a comparable relevance score to a candidate given the
// original query. It holds only immutable configuration, so Score is
// referentially transparent.
type Scorer struct {
	boosts map[string]float64
}

func NewScorer(boosts map[string]float64) *Scorer {
	if len(boosts) == 0 {
		boosts = DefaultBoosts()
	}
	return &Scorer{boosts: boosts}
}

// Score combines token overlap, a literal title-substring bonus, a
// bigram adjacency bonus, configured type-keyword boosts, and a trust
// boost for authoritative sources.
func (s *Scorer) Score(query string, doc domain.Document, authoritative bool) (float64, string) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || doc.Title == "" {
		return 0, "no scorable title"
	}

	titleLower := strings.ToLower(doc.Title)
	titleSet := toTokenSet(tokenize(titleLower))

	var rationale []string

	matches := 0
	for _, token := range queryTokens {
		if _, ok := titleSet[token]; ok {
			matches++
		}
	}
	score := float64(matches) / float64(len(queryTokens)) * overlapScale
	if matches > 0 {
		rationale = append(rationale, fmt.Sprintf("title shares %d/%d query tokens", matches, len(queryTokens)))
	}

	if strings.Contains(titleLower, strings.ToLower(strings.TrimSpace(query))) {
		score += titleHitBonus
		rationale = append(rationale, "title contains the query verbatim")
	}

	for i := 0; i+1 < len(queryTokens); i++ {
		bigram := queryTokens[i] + " " + queryTokens[i+1]
		if strings.Contains(titleLower, bigram) {
			score += bigramBonus
			rationale = append(rationale, fmt.Sprintf("title keeps %q adjacent", bigram))
		}
	}

	if doc.DocumentType != "" {
		typeLower := strings.ToLower(doc.DocumentType)
		for _, keyword := range sortedKeys(s.boosts) {
			if strings.Contains(typeLower, keyword) {
				score += s.boosts[keyword]
				rationale = append(rationale, fmt.Sprintf("document type mentions %q", keyword))
			}
		}
	}

	if authoritative {
		score += sourceTrustBonus
		rationale = append(rationale, "authoritative source")
	}

	if len(rationale) == 0 {
		rationale = append(rationale, "no overlap with the query")
	}
	return math.Round(score*100) / 100, strings.Join(rationale, "; ")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toTokenSet(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

// tokenize lowercases and splits on every non-alphanumeric rune.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
