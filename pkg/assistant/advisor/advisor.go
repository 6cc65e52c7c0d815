// Package advisor asks a language model to pick from caller-supplied products
// and deals, and recovers its structured choice from the free-text reply.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront-be/internal/pkg/logger"
	"storefront-be/pkg/assistant"
	"storefront-be/pkg/llm"
)

const (
	moduleName = "Advisor"

	// Delimiter separates the conversational reply from the JSON payload.
	Delimiter = "###JSON###"

	RephraseText  = "I understand your question, but let me try to provide a better response. Could you rephrase your question?"
	TroubleText   = "I understand your question, but I had trouble processing the response. Could you try asking in a different way?"
	NoConnectText = "I'm having trouble connecting right now. Please try again in a moment."
)

var (
	payloadPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(Delimiter) + `\s*(\{.*\})`)

	ErrMissingDelimiter = fmt.Errorf("%w: no %s payload", assistant.ErrMalformedUpstreamResponse, Delimiter)
	ErrInvalidPayload   = fmt.Errorf("%w: payload is not valid JSON", assistant.ErrMalformedUpstreamResponse)
)

// Payload is the structured part of the model reply. A nil slice means the
// model left the key out; an empty slice means it chose nothing.
type Payload struct {
	Text     string        `json:"text"`
	Products []CandidateID `json:"products"`
	Deals    []CandidateID `json:"deals"`
}

// Extract pulls the payload that follows the delimiter out of reply.
func Extract(reply string) (*Payload, error) {
	m := payloadPattern.FindStringSubmatch(reply)
	if m == nil {
		return nil, ErrMissingDelimiter
	}
	var p Payload
	if err := json.Unmarshal([]byte(m[1]), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

// Filter keeps the candidates whose id appears in ids, in candidate order.
// A nil ids slice yields nil.
func Filter(candidates []Candidate, ids []CandidateID) []Candidate {
	if ids == nil {
		return nil
	}
	wanted := make(map[CandidateID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]Candidate, 0, len(ids))
	for _, c := range candidates {
		if _, ok := wanted[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// BuildPrompt frames the shopper's message with the candidate lists.
func BuildPrompt(message string, products, deals []Candidate) string {
	var b strings.Builder
	b.WriteString("\nYou are a helpful shopping assistant. Respond naturally to help customers find products and deals.\n")
	b.WriteString("Available products and deals are:\n\nProducts:\n")
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s: $%s - %s", p.Name, p.Price, p.Description))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nDeals:\n")
	lines = lines[:0]
	for _, d := range deals {
		lines = append(lines, fmt.Sprintf("- %s: %s - %s", d.Name, d.Discount, d.Description))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nUser query: ")
	b.WriteString(message)
	b.WriteString(`

Important: Your response should help the customer find relevant products or deals based on their query.
If they ask about specific products, recommend matching items from the available products.
If they ask about deals or discounts, share relevant deals.

Format your response with a conversational message followed by ` + Delimiter + ` and a JSON object containing:
{
  "text": "Your conversational response",
  "products": [array of product IDs that match the query],
  "deals": [array of deal IDs that match the query]
}`)
	return b.String()
}

// Outcome says how the reply was produced.
type Outcome string

const (
	OutcomeAnswered    Outcome = "answered"
	OutcomeNoDelimiter Outcome = "no_delimiter"
	OutcomeInvalidJSON Outcome = "invalid_json"
)

type Answer struct {
	Text     string
	Products []Candidate
	Deals    []Candidate
	Outcome  Outcome
}

type Advisor struct {
	provider llm.LLMProvider
	timeout  time.Duration
	logger   logger.ILogger
}

func NewAdvisor(provider llm.LLMProvider, timeout time.Duration, logger logger.ILogger) *Advisor {
	return &Advisor{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Advise sends the prompt to the model. A malformed reply degrades to a
// clarification Answer; only a provider failure returns an error.
func (a *Advisor) Advise(ctx context.Context, message string, products, deals []Candidate) (*Answer, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	reply, err := a.provider.Generate(ctx, BuildPrompt(message, products, deals))
	if err != nil {
		a.logger.Error(moduleName, "Model request failed", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("generate advice: %w", err)
	}

	payload, err := Extract(reply)
	switch {
	case errors.Is(err, ErrMissingDelimiter):
		a.logger.Warn(moduleName, "Model reply without payload delimiter", map[string]interface{}{
			"reply_length": len(reply),
		})
		return &Answer{Text: RephraseText, Outcome: OutcomeNoDelimiter}, nil
	case err != nil:
		a.logger.Warn(moduleName, "Model payload did not parse", map[string]interface{}{"error": err})
		return &Answer{Text: TroubleText, Outcome: OutcomeInvalidJSON}, nil
	}

	return &Answer{
		Text:     payload.Text,
		Products: Filter(products, payload.Products),
		Deals:    Filter(deals, payload.Deals),
		Outcome:  OutcomeAnswered,
	}, nil
}
