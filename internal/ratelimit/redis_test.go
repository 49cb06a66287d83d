package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreFirstHitSetsExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 60, time.Minute)
	key := redisKeyPrefix + "10.0.0.1"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectPExpire(key, time.Minute).SetVal(true)
	mock.ExpectPTTL(key).SetVal(time.Minute)

	d, err := store.Admit(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreRejectsOverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 60, time.Minute)
	key := redisKeyPrefix + "10.0.0.1"

	mock.ExpectIncr(key).SetVal(61)
	mock.ExpectPTTL(key).SetVal(20 * time.Second)

	d, err := store.Admit(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 61, d.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreRestoresMissingExpiry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 5, 30*time.Second)
	key := redisKeyPrefix + "k"

	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectPTTL(key).SetVal(-1)
	mock.ExpectPExpire(key, 30*time.Second).SetVal(true)

	d, err := store.Admit(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStorePropagatesErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 5, time.Minute)

	mock.ExpectIncr(redisKeyPrefix + "k").SetErr(errors.New("connection refused"))

	_, err := store.Admit(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incr rate counter")
}
