// Package fuzzy ranks candidates against an interactively typed query.
//
// The scorer is deliberately simple and deterministic: a case-insensitive
// substring match always outranks a scattered subsequence match, ties keep
// input order, and the same inputs always produce the same ranking. That
// determinism is what makes picker behavior testable.
package fuzzy

import (
	"sort"
	"strings"
)

// substringBase is the floor score for any substring match; it is chosen so
// that even the worst substring hit beats the best realistic subsequence hit.
const substringBase = 1000

// keyLenCap bounds the length penalty so very long keys are not punished
// past the point of usefulness.
const keyLenCap = 50

// Candidate pairs a domain item with the text keys it can be searched by.
type Candidate[T any] struct {
	Item T
	Keys []string
}

// Match is a ranked candidate. Higher scores are better.
type Match[T any] struct {
	Item  T
	Score int
}

// Rank scores every candidate against query and returns matches sorted by
// descending score. Candidates that match on no key are dropped. Equal
// scores preserve input order. An empty query passes every candidate
// through with score 0 in input order.
func Rank[T any](cands []Candidate[T], query string) []Match[T] {
	if query == "" {
		out := make([]Match[T], len(cands))
		for i, c := range cands {
			out[i] = Match[T]{Item: c.Item}
		}
		return out
	}

	q := strings.ToLower(query)
	out := make([]Match[T], 0, len(cands))
	for _, c := range cands {
		if score, ok := ScoreCandidate(c.Keys, q); ok {
			out = append(out, Match[T]{Item: c.Item, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// ScoreCandidate returns the best score across keys for an already
// lowercased query, and whether any key matched at all.
func ScoreCandidate(keys []string, query string) (int, bool) {
	best := 0
	matched := false
	for _, key := range keys {
		if score, ok := scoreKey(strings.ToLower(key), query); ok {
			if !matched || score > best {
				best = score
				matched = true
			}
		}
	}
	return best, matched
}

// scoreKey scores a single lowercased key against a lowercased query,
// taking the better of a substring match and a subsequence match.
func scoreKey(key, query string) (int, bool) {
	score := 0
	matched := false

	if idx := strings.Index(key, query); idx >= 0 {
		score = substringBase + 100 - idx - min(len(key), keyLenCap)
		matched = true
	}

	if sub, ok := subsequenceScore(key, query); ok && (!matched || sub > score) {
		score = sub
		matched = true
	}

	return score, matched
}

// subsequenceScore walks key looking for the query characters in order.
// Each matched character is worth 2, plus 1 more when it directly extends
// the previous match (rewarding contiguous runs). The query must be fully
// consumed for the key to count.
func subsequenceScore(key, query string) (int, bool) {
	qr := []rune(query)
	if len(qr) == 0 {
		return 0, false
	}

	score := 0
	qi := 0
	lastHit := -2
	for i, r := range []rune(key) {
		if qi >= len(qr) {
			break
		}
		if r != qr[qi] {
			continue
		}
		score += 2
		if i == lastHit+1 {
			score++
		}
		lastHit = i
		qi++
	}
	if qi < len(qr) {
		return 0, false
	}
	return score, true
}
