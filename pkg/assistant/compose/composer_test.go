package compose

import (
	"testing"

	"storefront-be/internal/entity"
	"storefront-be/pkg/assistant/match"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setOf(titles ...string) *match.MatchSet {
	set := match.NewMatchSet()
	for _, title := range titles {
		set.Add(&entity.Product{Id: uuid.New(), Title: title})
	}
	return set
}

func TestCompose(t *testing.T) {
	c := NewComposer(DefaultTemplates(), DefaultDiscountTriggers())

	tests := []struct {
		name       string
		message    string
		general    *match.MatchSet
		discounted *match.MatchSet
		wantRule   Rule
		wantText   string
	}{
		{
			name:       "discount trigger with discounted matches",
			message:    "show me a deal on headphones",
			general:    setOf("Bluetooth Headphones", "Studio Headphones"),
			discounted: setOf("Bluetooth Headphones"),
			wantRule:   RuleDiscountFound,
			wantText:   "I found 1 products with special discounts that might interest you! Check these out:",
		},
		{
			name:       "discount trigger ignores general matches",
			message:    "Any SALE on watches?",
			general:    setOf("Smart Watch"),
			discounted: setOf(),
			wantRule:   RuleDiscountEmpty,
			wantText:   "I don't see any current deals matching your search, but let me show you our available products instead.",
		},
		{
			name:       "trigger matched inside a word",
			message:    "discounted chargers",
			general:    setOf(),
			discounted: setOf("Power Bank", "Wall Charger"),
			wantRule:   RuleDiscountFound,
			wantText:   "I found 2 products with special discounts that might interest you! Check these out:",
		},
		{
			name:       "single match names the title",
			message:    "smart watch",
			general:    setOf("Smart Watch Pro"),
			discounted: setOf(),
			wantRule:   RuleSingleMatch,
			wantText:   "I found 1 item that might interest you! The Smart Watch Pro would be perfect for you. Let me know if you'd like more details about any of them.",
		},
		{
			name:       "many matches",
			message:    "headphones",
			general:    setOf("A", "B", "C"),
			discounted: setOf("A"),
			wantRule:   RuleManyMatches,
			wantText:   "I found 3 items that might interest you! Here are some items that match what you're looking for. Let me know if you'd like more details about any of them.",
		},
		{
			name:       "no match",
			message:    "xyz nonexistent gadget",
			general:    setOf(),
			discounted: setOf(),
			wantRule:   RuleNoMatch,
			wantText:   DefaultTemplates().NoMatch,
		},
		{
			name:     "nil sets behave as empty",
			message:  "anything",
			wantRule: RuleNoMatch,
			wantText: DefaultTemplates().NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.Compose(tt.message, tt.general, tt.discounted)
			assert.Equal(t, tt.wantRule, reply.Rule)
			assert.Equal(t, tt.wantText, reply.Text)
		})
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := NewComposer(DefaultTemplates(), DefaultDiscountTriggers())
	general := setOf("Smart Watch")
	discounted := setOf()

	first := c.Compose("watch", general, discounted)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Compose("watch", general, discounted))
	}
}

func TestComposeCustomTriggers(t *testing.T) {
	c := NewComposer(DefaultTemplates(), []string{"promo"})

	assert.Equal(t, RuleDiscountEmpty, c.Compose("any promo today", setOf("X"), setOf()).Rule)
	assert.Equal(t, RuleSingleMatch, c.Compose("any deal today", setOf("X"), setOf()).Rule)
}
