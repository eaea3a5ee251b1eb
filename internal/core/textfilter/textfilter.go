// Package textfilter decides whether a captured chat message is substantive
// enough to count as usage
//
// A message is rejected only when it is BOTH under the word threshold AND
// contains a blocked phrase. Either condition alone passes: a long message that
// happens to say thanks still counts, and a short message with real content
// counts too. Only short pleasantries ("xin chào", "cảm ơn") are dropped
package textfilter

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains, normalization is on the hot ingest path
var chainPool = sync.Pool{
	New: func() any {
		// NFC first so composed and decomposed Vietnamese compare equal,
		// then full unicode case folding. Diacritics are kept, they are
		// significant in the blocked phrase list
		return transform.Chain(norm.NFC, cases.Fold())
	},
}

// Normalize trims, NFC-normalizes and case-folds s
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	return strings.TrimSpace(ns)
}

// WordCount counts whitespace-delimited tokens after normalization
func WordCount(s string) int {
	return len(strings.Fields(Normalize(s)))
}

// ContainsBlocked reports whether any phrase is a substring of the normalized
// message. Phrases are normalized the same way before comparison
func ContainsBlocked(message string, phrases []string) bool {
	m := Normalize(message)
	if m == "" {
		return false
	}
	for _, p := range phrases {
		np := Normalize(p)
		if np == "" {
			continue
		}
		if strings.Contains(m, np) {
			return true
		}
	}
	return false
}

// Eligible applies the usage filter rule: reject only when the message is both
// shorter than minWords and contains a blocked phrase
func Eligible(message string, minWords int, blocked []string) bool {
	short := WordCount(message) < minWords
	return !(short && ContainsBlocked(message, blocked))
}
