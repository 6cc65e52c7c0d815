// Package compose picks the canned chat reply for a turn.
package compose

import (
	"fmt"
	"strings"

	"storefront-be/pkg/assistant/match"
)

// Rule names the branch that produced a reply.
type Rule string

const (
	RuleDiscountFound Rule = "discount_found"
	RuleDiscountEmpty Rule = "discount_empty"
	RuleSingleMatch   Rule = "single_match"
	RuleManyMatches   Rule = "many_matches"
	RuleNoMatch       Rule = "no_match"
)

// Templates holds the fixed reply text. Count placeholders take an int and
// SingleMatch takes the product title.
type Templates struct {
	DiscountFound string
	DiscountEmpty string
	MatchesFound  string
	SingleMatch   string
	ManyMatches   string
	MatchesTail   string
	NoMatch       string
}

func DefaultTemplates() Templates {
	return Templates{
		DiscountFound: "I found %d products with special discounts that might interest you! Check these out:",
		DiscountEmpty: "I don't see any current deals matching your search, but let me show you our available products instead.",
		MatchesFound:  "I found %d %s that might interest you!",
		SingleMatch:   "The %s would be perfect for you.",
		ManyMatches:   "Here are some items that match what you're looking for.",
		MatchesTail:   "Let me know if you'd like more details about any of them.",
		NoMatch:       "I couldn't find exact matches for your search, but I'd be happy to help you explore other options. Could you tell me more about what specific features or type of product you're looking for?",
	}
}

// DefaultDiscountTriggers switch a turn to the discount branch when any of
// them appears in the lower-cased message.
func DefaultDiscountTriggers() []string {
	return []string{"deal", "sale", "discount"}
}

type Reply struct {
	Text string
	Rule Rule
}

type Composer struct {
	templates Templates
	triggers  []string
}

func NewComposer(templates Templates, triggers []string) *Composer {
	return &Composer{templates: templates, triggers: triggers}
}

// Compose applies the rules in order and returns the first that fits.
func (c *Composer) Compose(message string, general, discounted *match.MatchSet) Reply {
	if c.wantsDiscount(message) {
		if discounted.Len() > 0 {
			return Reply{Text: fmt.Sprintf(c.templates.DiscountFound, discounted.Len()), Rule: RuleDiscountFound}
		}
		return Reply{Text: c.templates.DiscountEmpty, Rule: RuleDiscountEmpty}
	}

	switch n := general.Len(); {
	case n == 1:
		return Reply{
			Text: c.joinMatches(n, "item", fmt.Sprintf(c.templates.SingleMatch, general.First().Title)),
			Rule: RuleSingleMatch,
		}
	case n > 1:
		return Reply{
			Text: c.joinMatches(n, "items", c.templates.ManyMatches),
			Rule: RuleManyMatches,
		}
	}
	return Reply{Text: c.templates.NoMatch, Rule: RuleNoMatch}
}

func (c *Composer) joinMatches(n int, noun, middle string) string {
	return strings.Join([]string{
		fmt.Sprintf(c.templates.MatchesFound, n, noun),
		middle,
		c.templates.MatchesTail,
	}, " ")
}

func (c *Composer) wantsDiscount(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range c.triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
