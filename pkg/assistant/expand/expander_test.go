package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTokens(t *testing.T) {
	e := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{})

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{name: "stopwords dropped", message: "Show me a deal on headphones", want: []string{"deal", "headphones"}},
		{name: "trailing punctuation stripped", message: "watch!? charger.", want: []string{"watch", "charger"}},
		{name: "short tokens dropped", message: "a b cd", want: []string{"cd"}},
		{name: "duplicates collapse", message: "Watch watch WATCH", want: []string{"watch"}},
		{name: "empty", message: "   ", want: []string{}},
		{name: "inner punctuation kept", message: "usb-c", want: []string{"usb-c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := e.Expand(tt.message)
			assert.Equal(t, tt.want, q.Tokens)
			assert.Equal(t, tt.want, q.Terms)
		})
	}
}

func TestExpandTopicsFirstMatchWins(t *testing.T) {
	table := SynonymTable{
		{Key: "head", Synonyms: []string{"first"}},
		{Key: "headphone", Synonyms: []string{"second"}},
	}
	e := NewExpander(table, nil, Options{WidenWithSynonyms: true})

	q := e.Expand("headphones")

	assert.Equal(t, "head", q.Topics["headphones"])
	assert.Equal(t, []string{"headphones", "first"}, q.Terms)
}

func TestExpandKeyContainsToken(t *testing.T) {
	e := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{WidenWithSynonyms: true})

	q := e.Expand("pow")

	assert.Equal(t, "power", q.Topics["pow"])
	assert.Equal(t, []string{"pow", "charger", "battery", "power bank"}, q.Terms)
}

func TestExpandWideningKeepsRawTokens(t *testing.T) {
	narrow := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{})
	wide := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{WidenWithSynonyms: true})

	n := narrow.Expand("show me a deal on headphones")
	w := wide.Expand("show me a deal on headphones")

	assert.Equal(t, []string{"deal", "headphones"}, n.Terms)
	assert.Equal(t, []string{"deal", "sale", "discount", "offer", "headphones", "earbuds", "earphones"}, w.Terms)
	for _, tok := range n.Terms {
		assert.Contains(t, w.Terms, tok)
	}
	assert.Equal(t, n.Topics, w.Topics)
}

func TestExpandUnknownTokensHaveNoTopic(t *testing.T) {
	e := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{WidenWithSynonyms: true})

	q := e.Expand("xyz nonexistent gadget")

	assert.Equal(t, []string{"xyz", "nonexistent", "gadget"}, q.Terms)
	assert.Empty(t, q.Topics)
}

func TestExpandIsDeterministic(t *testing.T) {
	e := NewExpander(DefaultSynonyms(), DefaultStopwords(), Options{WidenWithSynonyms: true})
	messages := []string{
		"show me a deal on headphones",
		"Any smartwatch with a long battery?",
		"",
		"audio audio power!",
	}
	for _, m := range messages {
		first := e.Expand(m)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, e.Expand(m), m)
		}
	}
}
