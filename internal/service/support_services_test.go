package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront-be/internal/dto"
	"storefront-be/internal/entity"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/repository/memory"
	"storefront-be/pkg/assistant/advisor"
	"storefront-be/pkg/assistant/transcript"
	"storefront-be/pkg/events"
	"storefront-be/pkg/llm"
	pkgNats "storefront-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) (*memory.Store, *entity.Product) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	uow := memory.NewRepositoryFactory(store).NewUnitOfWork(ctx)

	audio := &entity.Category{Name: "Audio"}
	require.NoError(t, uow.CategoryRepository().Create(ctx, audio))
	wearables := &entity.Category{Name: "Wearables"}
	require.NoError(t, uow.CategoryRepository().Create(ctx, wearables))
	acme := &entity.Brand{Name: "Acme"}
	require.NoError(t, uow.BrandRepository().Create(ctx, acme))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	headphones := &entity.Product{Title: "Bluetooth Headphones", CategoryId: audio.Id, BrandId: acme.Id, CreatedAt: base}
	for i, p := range []*entity.Product{
		headphones,
		{Title: "Smart Watch", CategoryId: wearables.Id, BrandId: acme.Id},
		{Title: "Fitness Watch", CategoryId: wearables.Id, BrandId: acme.Id},
		{Title: "Hidden Watch", CategoryId: wearables.Id, IsDeleted: true},
	} {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		}
		require.NoError(t, uow.ProductRepository().Create(ctx, p))
	}
	return store, headphones
}

func TestCatalogListProducts(t *testing.T) {
	store, _ := seedStore(t)
	svc := NewCatalogService(memory.NewRepositoryFactory(store))
	ctx := context.Background()

	res, err := svc.ListProducts(ctx, &dto.ListProductsRequest{Q: "watch", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Fitness Watch", res.Items[0].Title, "newest first")
	require.NotNil(t, res.Items[0].Category)
	assert.Equal(t, "Wearables", res.Items[0].Category.Name)

	page2, err := svc.ListProducts(ctx, &dto.ListProductsRequest{Q: "watch", Limit: 1, Page: 1})
	require.NoError(t, err)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "Smart Watch", page2.Items[0].Title)

	all, err := svc.ListProducts(ctx, &dto.ListProductsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, defaultPageSize, all.Limit)
}

func TestCatalogGetProduct(t *testing.T) {
	store, headphones := seedStore(t)
	svc := NewCatalogService(memory.NewRepositoryFactory(store))

	got, err := svc.GetProduct(context.Background(), headphones.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bluetooth Headphones", got.Title)
	assert.Equal(t, "Acme", got.Brand.Name)
	assert.NotNil(t, got.Images)

	missing, err := svc.GetProduct(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogCategoriesAndBrands(t *testing.T) {
	store, _ := seedStore(t)
	svc := NewCatalogService(memory.NewRepositoryFactory(store))

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Audio", categories[0].Name)

	brands, err := svc.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}

func TestTranscriptQueueRoundTrip(t *testing.T) {
	store := memory.NewStore()
	recorder := transcript.NewRecorder(memory.NewRepositoryFactory(store), memory.NewUserLockRepository())
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewTranscriptConsumerService(pubSub, "CHAT_TRANSCRIPT", recorder, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	sink := NewTranscriptPublisher(pubSub, "CHAT_TRANSCRIPT")
	require.NoError(t, sink.Record(ctx, "u-async", "hi", "hello"))
	require.NoError(t, sink.Record(ctx, "u-async", "watch?", "I found 1 item"))

	require.Eventually(t, func() bool {
		conversations := store.Conversations()
		return len(conversations) == 1 && len(conversations[0].Messages) == 4
	}, 2*time.Second, 10*time.Millisecond)

	messages := store.Conversations()[0].Messages
	assert.Equal(t, []string{"user", "assistant", "user", "assistant"}, []string{
		messages[0].Role, messages[1].Role, messages[2].Role, messages[3].Role,
	})
	assert.Equal(t, []string{"hi", "hello", "watch?", "I found 1 item"}, []string{
		messages[0].Content, messages[1].Content, messages[2].Content, messages[3].Content,
	})
}

func TestTranscriptQueueKeepsTurnOrder(t *testing.T) {
	store := memory.NewStore()
	recorder := transcript.NewRecorder(memory.NewRepositoryFactory(store), memory.NewUserLockRepository())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewTranscriptConsumerService(pubSub, "CHAT_TRANSCRIPT", recorder, logger.NewNopLogger()).Consume(ctx))

	sink := NewTranscriptPublisher(pubSub, "CHAT_TRANSCRIPT").(*transcriptPublisher)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sink.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	const turns = 50
	want := make([]string, 0, turns)
	for i := 0; i < turns; i++ {
		text := fmt.Sprintf("turn-%02d", i)
		want = append(want, text)
		require.NoError(t, sink.Record(ctx, "u-order", text, "reply"))
	}

	require.Eventually(t, func() bool {
		conversations := store.Conversations()
		return len(conversations) == 1 && len(conversations[0].Messages) == 2*turns
	}, 5*time.Second, 10*time.Millisecond)

	got := make([]string, 0, turns)
	for _, m := range store.Conversations()[0].Messages {
		if m.Role == "user" {
			got = append(got, m.Content)
		}
	}
	assert.Equal(t, want, got)
}

type stubSubscriber struct {
	handler pkgNats.EventHandler
	subject string
}

func (s *stubSubscriber) Subscribe(ctx context.Context, eventType, durableName string, handler pkgNats.EventHandler) error {
	s.subject = eventType
	s.handler = handler
	return nil
}

func TestChatInsightsAggregatesTurns(t *testing.T) {
	sub := &stubSubscriber{}
	svc := NewChatInsightsService(sub, logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "CHAT_TURN_COMPLETED", sub.subject)

	// Payloads as they arrive after a JSON round trip.
	decode := func(raw string) map[string]interface{} {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &m))
		return m
	}
	ctx := context.Background()
	require.NoError(t, sub.handler(ctx, events.New("CHAT_TURN_COMPLETED", decode(`{"rule":"no_match","tokens":["hoverboard","purple"]}`))))
	require.NoError(t, sub.handler(ctx, events.New("CHAT_TURN_COMPLETED", decode(`{"rule":"no_match","tokens":["hoverboard"]}`))))
	require.NoError(t, sub.handler(ctx, events.New("CHAT_TURN_COMPLETED", decode(`{"rule":"single_match","tokens":["watch"]}`))))

	snap := svc.Snapshot()
	assert.Equal(t, 3, snap.Turns)
	assert.Equal(t, 2, snap.ByRule["no_match"])
	require.Len(t, snap.UnmatchedTerms, 2)
	assert.Equal(t, TermCount{Term: "hoverboard", Count: 2}, snap.UnmatchedTerms[0])
}

type scriptedProvider struct {
	reply string
	err   error
}

func (p scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, subject string) error {
	return &dto.LimitExceededError{Limit: 0, ResetAfter: time.Now()}
}

func TestAssistantServiceAdvise(t *testing.T) {
	var products []advisor.Candidate
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"Watch","price":10},{"id":2,"name":"Charger","price":5}]`), &products))
	req := &dto.AssistantRequest{Message: "watch?", Products: products}

	t.Run("answer", func(t *testing.T) {
		adv := advisor.NewAdvisor(scriptedProvider{reply: `Sure ###JSON### {"text":"Try the watch","products":[1]}`}, 0, logger.NewNopLogger())
		svc := NewAssistantService(adv, nil, newRecordingPublisher(), logger.NewNopLogger())

		res, err := svc.Advise(context.Background(), "u-1", req)
		require.NoError(t, err)
		assert.Equal(t, "Try the watch", res.Text)
		require.Len(t, res.Products, 1)
		assert.Equal(t, "Watch", res.Products[0].Name)
		assert.Nil(t, res.Deals)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		adv := advisor.NewAdvisor(scriptedProvider{}, 0, logger.NewNopLogger())
		svc := NewAssistantService(adv, denyAll{}, nil, logger.NewNopLogger())

		_, err := svc.Advise(context.Background(), "u-1", req)
		var limitErr *dto.LimitExceededError
		assert.ErrorAs(t, err, &limitErr)
	})

	t.Run("provider down", func(t *testing.T) {
		adv := advisor.NewAdvisor(scriptedProvider{err: errors.New("dial tcp")}, 0, logger.NewNopLogger())
		svc := NewAssistantService(adv, nil, nil, logger.NewNopLogger())

		_, err := svc.Advise(context.Background(), "u-1", req)
		assert.Error(t, err)
	})
}
