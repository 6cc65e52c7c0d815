package transcript

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/repository/memory"
	"storefront-be/pkg/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newRecorder(store *memory.Store) *Recorder {
	return NewRecorder(
		memory.NewRepositoryFactory(store),
		memory.NewUserLockRepository(),
		WithClock(fixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))),
	)
}

func TestTwoTurnsShareOneRecord(t *testing.T) {
	store := memory.NewStore()
	r := newRecorder(store)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, "new-user", "hi", "hello"))
	require.NoError(t, r.Record(ctx, "new-user", "watches?", "I found 2 items"))

	all := store.Conversations()
	require.Len(t, all, 1)
	conv := all[0]
	assert.Equal(t, "new-user", conv.UserId)
	require.Len(t, conv.Messages, 4)
	roles := []string{}
	for _, m := range conv.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{
		entity.ConversationRoleUser,
		entity.ConversationRoleAssistant,
		entity.ConversationRoleUser,
		entity.ConversationRoleAssistant,
	}, roles)
	assert.Equal(t, "watches?", conv.Messages[2].Content)
	assert.True(t, conv.LastUpdated.After(conv.CreatedAt))
}

func TestRecordAtPlacesLateTurnsByTime(t *testing.T) {
	store := memory.NewStore()
	r := newRecorder(store)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.RecordAt(ctx, "u-late", "second", "reply 2", base.Add(2*time.Second)))
	require.NoError(t, r.RecordAt(ctx, "u-late", "third", "reply 3", base.Add(3*time.Second)))
	require.NoError(t, r.RecordAt(ctx, "u-late", "first", "reply 1", base.Add(time.Second)))

	all := store.Conversations()
	require.Len(t, all, 1)
	contents := []string{}
	for _, m := range all[0].Messages {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"first", "reply 1", "second", "reply 2", "third", "reply 3"}, contents)
	assert.Equal(t, base.Add(3*time.Second), all[0].LastUpdated)
}

func TestRecordAppendsToLatestRecord(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewRepositoryFactory(store).NewUnitOfWork(ctx).ConversationRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &entity.Conversation{UserId: "u-1", CreatedAt: base}
	newer := &entity.Conversation{UserId: "u-1", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	require.NoError(t, newRecorder(store).Record(ctx, "u-1", "q", "a"))

	for _, c := range store.Conversations() {
		if c.Id == newer.Id {
			assert.Len(t, c.Messages, 2)
		} else {
			assert.Empty(t, c.Messages)
		}
	}
}

func TestConcurrentFirstTurnsCreateOneRecord(t *testing.T) {
	store := memory.NewStore()
	r := newRecorder(store)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Record(context.Background(), "racer", fmt.Sprintf("q%d", i), "a"))
		}(i)
	}
	wg.Wait()

	all := store.Conversations()
	require.Len(t, all, 1)
	assert.Len(t, all[0].Messages, 20)
}

func TestRecordStoreFailure(t *testing.T) {
	store := memory.NewStore()
	store.FailConversations(errors.New("disk full"))

	err := newRecorder(store).Record(context.Background(), "u-1", "q", "a")

	assert.ErrorIs(t, err, assistant.ErrStoreUnavailable)
}

func TestLatest(t *testing.T) {
	store := memory.NewStore()
	r := newRecorder(store)
	ctx := context.Background()

	none, err := r.Latest(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, r.Record(ctx, "u-1", "q", "a"))
	got, err := r.Latest(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Messages, 2)
}
