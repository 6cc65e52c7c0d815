// Package transcript appends chat turns to a user's conversation record.
package transcript

import (
	"context"
	"fmt"
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/repository/specification"
	"storefront-be/internal/repository/unitofwork"
	"storefront-be/pkg/assistant"
)

// Locker serializes work per user id. Lock returns the release func.
type Locker interface {
	Lock(userId string) func()
}

type Recorder struct {
	uowFactory unitofwork.RepositoryFactory
	locks      Locker
	now        func() time.Time
}

type Option func(*Recorder)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func NewRecorder(uowFactory unitofwork.RepositoryFactory, locks Locker, opts ...Option) *Recorder {
	r := &Recorder{
		uowFactory: uowFactory,
		locks:      locks,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stores a turn taken now. See RecordAt.
func (r *Recorder) Record(ctx context.Context, userId, userText, assistantText string) error {
	return r.RecordAt(ctx, userId, userText, assistantText, r.now())
}

// RecordAt adds a user/assistant pair taken at the given time to the user's
// latest conversation, or creates one seeded with the pair. Turns recorded
// out of order are placed by their time. Store failures wrap
// assistant.ErrStoreUnavailable.
func (r *Recorder) RecordAt(ctx context.Context, userId, userText, assistantText string, at time.Time) error {
	unlock := r.locks.Lock(userId)
	defer unlock()

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: begin transcript write: %v", assistant.ErrStoreUnavailable, err)
	}
	defer uow.Rollback()

	repo := uow.ConversationRepository()
	conversation, err := repo.FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.LatestFirst{},
	)
	if err != nil {
		return fmt.Errorf("%w: find conversation: %v", assistant.ErrStoreUnavailable, err)
	}

	if conversation == nil {
		conversation = &entity.Conversation{
			UserId:    userId,
			CreatedAt: at,
		}
		conversation.AddTurn(userText, assistantText, at)
		if err := repo.Create(ctx, conversation); err != nil {
			return fmt.Errorf("%w: create conversation: %v", assistant.ErrStoreUnavailable, err)
		}
	} else {
		conversation.AddTurn(userText, assistantText, at)
		if err := repo.Update(ctx, conversation); err != nil {
			return fmt.Errorf("%w: update conversation: %v", assistant.ErrStoreUnavailable, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: commit transcript write: %v", assistant.ErrStoreUnavailable, err)
	}
	return nil
}

// Latest returns the user's most recent conversation, or nil when none exists.
func (r *Recorder) Latest(ctx context.Context, userId string) (*entity.Conversation, error) {
	conversation, err := r.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.LatestFirst{},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find conversation: %v", assistant.ErrStoreUnavailable, err)
	}
	return conversation, nil
}
