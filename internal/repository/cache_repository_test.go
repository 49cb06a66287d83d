package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/class-admin/pkg/errors"
)

func TestCacheRepositoryRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewCacheRepository(client)
	ctx := context.Background()

	mock.ExpectSet(CacheKeyPrefix+"sections", []byte(`[{"id":1}]`), 30*time.Second).SetVal("OK")
	mock.ExpectGet(CacheKeyPrefix + "sections").SetVal(`[{"id":1}]`)
	mock.ExpectGet(CacheKeyPrefix + "missing").RedisNil()
	mock.ExpectDel(CacheKeyPrefix + "sections").SetVal(1)

	require.NoError(t, repo.Set(ctx, "sections", []map[string]int{{"id": 1}}, 30*time.Second))

	var out []map[string]int
	require.NoError(t, repo.Get(ctx, "sections", &out))
	assert.Equal(t, 1, out[0]["id"])

	assert.ErrorIs(t, repo.Get(ctx, "missing", &out), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Delete(ctx, "sections"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var out []int
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", 1, time.Second))
}
