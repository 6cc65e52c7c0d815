package service

import (
	"context"
	"time"

	"storefront-be/internal/constant"
	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/logger"
	"storefront-be/pkg/assistant/advisor"
	"storefront-be/pkg/events"
)

// QuotaChecker consumes one assistant request for subject.
type QuotaChecker interface {
	Allow(ctx context.Context, subject string) error
}

type IAssistantService interface {
	Advise(ctx context.Context, subject string, req *dto.AssistantRequest) (*dto.AssistantResponse, error)
}

type assistantService struct {
	advisor   *advisor.Advisor
	quota     QuotaChecker
	publisher EventPublisher
	logger    logger.ILogger
}

// NewAssistantService builds the advisor endpoint service. quota and
// publisher may be nil.
func NewAssistantService(adv *advisor.Advisor, quota QuotaChecker, publisher EventPublisher, logger logger.ILogger) IAssistantService {
	return &assistantService{
		advisor:   adv,
		quota:     quota,
		publisher: publisher,
		logger:    logger,
	}
}

// Advise returns *dto.LimitExceededError when the subject's quota is spent and
// the provider error when the model cannot be reached.
func (s *assistantService) Advise(ctx context.Context, subject string, req *dto.AssistantRequest) (*dto.AssistantResponse, error) {
	if s.quota != nil {
		if err := s.quota.Allow(ctx, subject); err != nil {
			return nil, err
		}
	}

	answer, err := s.advisor.Advise(ctx, req.Message, req.Products, req.Deals)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AssistantService", "Advice produced", map[string]interface{}{
		"subject":  subject,
		"outcome":  string(answer.Outcome),
		"products": len(answer.Products),
		"deals":    len(answer.Deals),
	})
	if s.publisher != nil {
		data := map[string]interface{}{
			"subject": subject,
			"outcome": string(answer.Outcome),
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := s.publisher.Publish(pubCtx, events.New(constant.EventAssistantAnswered, data)); err != nil {
				s.logger.Warn("AssistantService", "Failed to publish advice event", map[string]interface{}{"error": err})
			}
		}()
	}

	return &dto.AssistantResponse{
		Text:     answer.Text,
		Products: answer.Products,
		Deals:    answer.Deals,
	}, nil
}
