package service

import (
	"context"
	"sort"
	"sync"

	"storefront-be/internal/constant"
	"storefront-be/internal/pkg/logger"
	"storefront-be/pkg/assistant/compose"
	"storefront-be/pkg/events"
	pkgNats "storefront-be/pkg/nats"
)

const insightsTopTerms = 10

// EventSubscriber attaches a handler to one event type.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pkgNats.EventHandler) error
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type ChatInsights struct {
	Turns          int            `json:"turns"`
	ByRule         map[string]int `json:"by_rule"`
	UnmatchedTerms []TermCount    `json:"unmatched_terms"`
}

// ChatInsightsService aggregates completed turns from the bus, notably the
// tokens of turns that matched nothing.
type ChatInsightsService struct {
	subscriber EventSubscriber
	logger     logger.ILogger

	mu        sync.Mutex
	turns     int
	byRule    map[string]int
	unmatched map[string]int
}

func NewChatInsightsService(subscriber EventSubscriber, logger logger.ILogger) *ChatInsightsService {
	return &ChatInsightsService{
		subscriber: subscriber,
		logger:     logger,
		byRule:     map[string]int{},
		unmatched:  map[string]int{},
	}
}

func (s *ChatInsightsService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, constant.EventChatTurnCompleted, "chat-insights-worker", s.handleEvent)
}

func (s *ChatInsightsService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	rule, _ := payload["rule"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns++
	if rule != "" {
		s.byRule[rule]++
	}
	if rule == string(compose.RuleNoMatch) {
		// Decoded JSON arrays arrive as []interface{}.
		switch tokens := payload["tokens"].(type) {
		case []interface{}:
			for _, t := range tokens {
				if term, ok := t.(string); ok {
					s.unmatched[term]++
				}
			}
		case []string:
			for _, term := range tokens {
				s.unmatched[term]++
			}
		}
	}
	return nil
}

func (s *ChatInsightsService) Snapshot() ChatInsights {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRule := make(map[string]int, len(s.byRule))
	for k, v := range s.byRule {
		byRule[k] = v
	}
	terms := make([]TermCount, 0, len(s.unmatched))
	for term, n := range s.unmatched {
		terms = append(terms, TermCount{Term: term, Count: n})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > insightsTopTerms {
		terms = terms[:insightsTopTerms]
	}
	return ChatInsights{Turns: s.turns, ByRule: byRule, UnmatchedTerms: terms}
}
