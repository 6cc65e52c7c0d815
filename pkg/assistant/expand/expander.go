// Package expand turns a shopper's free-text message into catalog search terms.
package expand

import (
	"strings"
	"unicode/utf8"
)

// SynonymEntry ties a topic key to related catalog terms.
type SynonymEntry struct {
	Key      string
	Synonyms []string
}

// SynonymTable is consulted in slice order; the first matching entry wins.
type SynonymTable []SynonymEntry

// Lookup returns the first entry whose key is a substring of token or which
// contains token as a substring.
func (t SynonymTable) Lookup(token string) (SynonymEntry, bool) {
	for _, entry := range t {
		if strings.Contains(token, entry.Key) || strings.Contains(entry.Key, token) {
			return entry, true
		}
	}
	return SynonymEntry{}, false
}

// StopwordSet holds connective words that never become search terms.
type StopwordSet map[string]struct{}

func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// DefaultSynonyms is the storefront's built-in topic table.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		{Key: "watch", Synonyms: []string{"watch", "smartwatch", "wearable"}},
		{Key: "headphone", Synonyms: []string{"earbuds", "headphones", "earphones"}},
		{Key: "power", Synonyms: []string{"charger", "battery", "power bank"}},
		{Key: "deal", Synonyms: []string{"sale", "discount", "offer"}},
		{Key: "audio", Synonyms: []string{"earbuds", "headphones", "sound", "music"}},
	}
}

func DefaultStopwords() StopwordSet {
	return NewStopwordSet("show", "me", "a", "the", "and", "or", "in", "on", "at", "to", "for", "of", "with", "by")
}

const (
	trailingPunctuation = ".,!?"
	minTokenLength      = 2
)

type Options struct {
	// WidenWithSynonyms adds the matched entry's synonyms to the search terms.
	// Raw tokens are always search terms.
	WidenWithSynonyms bool
}

// Query is the expansion of one message.
type Query struct {
	// Tokens are the surviving raw tokens in message order, deduplicated.
	Tokens []string
	// Topics maps a token to the synonym key it resolved to.
	Topics map[string]string
	// Terms is what the catalog matcher searches for, deduplicated.
	Terms []string
}

type Expander struct {
	synonyms  SynonymTable
	stopwords StopwordSet
	opts      Options
}

func NewExpander(synonyms SynonymTable, stopwords StopwordSet, opts Options) *Expander {
	if stopwords == nil {
		stopwords = StopwordSet{}
	}
	return &Expander{
		synonyms:  synonyms,
		stopwords: stopwords,
		opts:      opts,
	}
}

// Expand tokenizes message and resolves each token against the synonym table.
// It touches no storage and returns the same Query for the same message.
func (e *Expander) Expand(message string) Query {
	q := Query{
		Tokens: []string{},
		Topics: map[string]string{},
		Terms:  []string{},
	}
	seenTokens := map[string]struct{}{}
	seenTerms := map[string]struct{}{}
	addTerm := func(term string) {
		if _, ok := seenTerms[term]; ok {
			return
		}
		seenTerms[term] = struct{}{}
		q.Terms = append(q.Terms, term)
	}

	for _, raw := range strings.Fields(strings.ToLower(message)) {
		token := strings.TrimSpace(strings.TrimRight(raw, trailingPunctuation))
		if utf8.RuneCountInString(token) < minTokenLength || e.stopwords.Contains(token) {
			continue
		}
		if _, ok := seenTokens[token]; ok {
			continue
		}
		seenTokens[token] = struct{}{}
		q.Tokens = append(q.Tokens, token)
		addTerm(token)

		entry, ok := e.synonyms.Lookup(token)
		if !ok {
			continue
		}
		q.Topics[token] = entry.Key
		if e.opts.WidenWithSynonyms {
			for _, syn := range entry.Synonyms {
				addTerm(syn)
			}
		}
	}
	return q
}
