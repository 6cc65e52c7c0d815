package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/dto"
	"storefront-be/internal/model"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/repository/memory"
	"storefront-be/internal/repository/specification"
	"storefront-be/internal/repository/unitofwork"
	"storefront-be/internal/seeddata"
	"storefront-be/internal/service"
	"storefront-be/pkg/assistant/access"
	"storefront-be/pkg/assistant/match"
	"storefront-be/pkg/assistant/transcript"
	"storefront-be/pkg/database"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewGormDBFromDSN(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error)
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Brand{}, &model.Product{}, &model.Conversation{}))
	return db
}

func TestCatalogMatchingAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	require.NoError(t, seeddata.Load(ctx, factory))

	matcher := match.NewMatcher(match.NewStoreSearcher(factory), match.Options{
		PerTermLimit: 50,
		QueryTimeout: 5 * time.Second,
	}, logger.NewNopLogger())

	t.Run("case-insensitive substring with refs", func(t *testing.T) {
		general, discounted, err := matcher.MatchBoth(ctx, []string{"HEADPHONES", "speaker"})
		require.NoError(t, err)
		assert.Equal(t, 2, general.Len())
		assert.Equal(t, 2, discounted.Len())
		first := general.First()
		require.NotNil(t, first)
		require.NotNil(t, first.Category)
		assert.Equal(t, "Audio", first.Category.Name)
	})

	t.Run("overlapping terms deduplicate", func(t *testing.T) {
		set, err := matcher.Match(ctx, []string{"watch", "smartwatch", "fitness"}, false)
		require.NoError(t, err)
		// Smart Watch matches all three terms and Fitness Band one.
		assert.Equal(t, 2, set.Len())
	})

	t.Run("soft-deleted rows are invisible", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Product{}).Where("title = ?", "Laptop Sleeve").Update("is_deleted", true).Error)
		set, err := matcher.Match(ctx, []string{"sleeve"}, false)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("catalog browse paginates", func(t *testing.T) {
		svc := service.NewCatalogService(factory)
		res, err := svc.ListProducts(ctx, &dto.ListProductsRequest{Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(len(seeddata.Catalog)-1), res.Total)
		assert.Len(t, res.Items, 3)
	})
}

func TestTranscriptRecorderAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	recorder := transcript.NewRecorder(factory, memory.NewUserLockRepository())

	require.NoError(t, recorder.Record(ctx, "pg-user", "watch?", "The Smart Watch would be perfect for you."))
	require.NoError(t, recorder.Record(ctx, "pg-user", "any deals?", "Sorry, no discounts right now."))

	count, err := factory.NewUnitOfWork(ctx).ConversationRepository().Count(ctx, specification.ByUserID{UserID: "pg-user"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	latest, err := recorder.Latest(ctx, "pg-user")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Len(t, latest.Messages, 4)
	assert.Equal(t, "user", latest.Messages[2].Role)
	assert.Equal(t, "any deals?", latest.Messages[2].Content)
}

func TestAssistantQuotaAgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	redisContainer, err := redis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	url, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := goredis.ParseURL(url)
	require.NoError(t, err)
	rdb := goredis.NewClient(opt)
	defer rdb.Close()

	limiter := access.NewLimiter(access.NewRedisUsageStore(rdb), 2, logger.NewNopLogger())

	require.NoError(t, limiter.Allow(ctx, "quota-user"))
	require.NoError(t, limiter.Allow(ctx, "quota-user"))
	err = limiter.Allow(ctx, "quota-user")
	var limitErr *dto.LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Limit)

	assert.NoError(t, limiter.Allow(ctx, "other-user"), "quota is per subject")

	keys, err := rdb.Keys(ctx, "assistant:usage:*").Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	ttl, err := rdb.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "usage keys expire at the next midnight")
}
