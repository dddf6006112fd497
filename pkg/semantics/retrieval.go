package semantics

import (
	"sort"
	"strings"
	"unicode"
)

// RetrieveRelevantKnowledge ranks triples against a query and returns the
// topK most relevant ones.
//
// Scoring is lexical: the query is split into lowercase word-like tokens,
// and a triple's score is the number of query tokens that occur as
// case-insensitive substrings of its concatenated subject, predicate, and
// object. Triples scoring zero are excluded. Remaining triples are ordered
// by descending score; ties keep their original sequence order, so results
// are deterministic for a given input.
//
// An empty query, an empty triple sequence, or topK <= 0 yields an empty
// result. This is deliberately keyword-only: precision is limited compared
// to embedding search, and this function is the seam where a semantic
// ranker could be substituted behind the same signature.
func RetrieveRelevantKnowledge(triples []Triple, query string, topK int) []Triple {
	if topK <= 0 || len(triples) == 0 {
		return []Triple{}
	}
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Triple{}
	}

	type scored struct {
		triple Triple
		score  int
	}
	matched := []scored{}
	for _, t := range triples {
		text := strings.ToLower(t.Subject + " " + t.Predicate + " " + t.Object)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > 0 {
			matched = append(matched, scored{triple: t, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if topK > len(matched) {
		topK = len(matched)
	}
	result := make([]Triple, 0, topK)
	for _, m := range matched[:topK] {
		result = append(result, m.triple)
	}
	return result
}

// tokenize splits a query into lowercase word-like tokens, treating any
// rune that is neither a letter nor a digit as a separator.
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
