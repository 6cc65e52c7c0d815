package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TranscriptSink stores one finished turn.
type TranscriptSink interface {
	Record(ctx context.Context, userId, userText, assistantText string) error
}

// TimedTranscriptSink stores a turn at the time it was taken rather than
// the time it is written.
type TimedTranscriptSink interface {
	RecordAt(ctx context.Context, userId, userText, assistantText string, at time.Time) error
}

// transcriptPublisher queues turns on an in-process topic instead of
// writing them inline.
type transcriptPublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
	now       func() time.Time
}

func NewTranscriptPublisher(pubSub *gochannel.GoChannel, topicName string) TranscriptSink {
	return &transcriptPublisher{pubSub: pubSub, topicName: topicName, now: time.Now}
}

func (p *transcriptPublisher) Record(ctx context.Context, userId, userText, assistantText string) error {
	payload, err := json.Marshal(dto.TranscriptTurnMessage{
		UserId:        userId,
		UserText:      userText,
		AssistantText: assistantText,
		OccurredAt:    p.now(),
	})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("queue transcript turn: %w", err)
	}
	return nil
}

type ITranscriptConsumerService interface {
	Consume(ctx context.Context) error
}

type transcriptConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	recorder  TimedTranscriptSink
	logger    logger.ILogger
}

func NewTranscriptConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	recorder TimedTranscriptSink,
	logger logger.ILogger,
) ITranscriptConsumerService {
	return &transcriptConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		recorder:  recorder,
		logger:    logger,
	}
}

// Consume starts recording queued turns until ctx is cancelled. gochannel
// hands each message over from its own goroutine, so arrival order is not
// publish order; turns are recorded at their OccurredAt to restore it.
func (cs *transcriptConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *transcriptConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TranscriptTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		msg.Ack()
		return
	}

	at := payload.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	// gochannel redelivers a nacked message immediately, so failures are
	// logged and acked rather than retried in a tight loop.
	if err := cs.recorder.RecordAt(ctx, payload.UserId, payload.UserText, payload.AssistantText, at); err != nil {
		cs.logger.Warn("TranscriptConsumer", "Transcript write failed", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err,
		})
		msg.Ack()
		return
	}

	cs.logger.Debug("TranscriptConsumer", "Transcript turn recorded", map[string]interface{}{
		"user_id": payload.UserId,
	})
	msg.Ack()
}
