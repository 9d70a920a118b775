package adapter

import (
	"context"
	"errors"
	"pawcheck/internal/domain"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pawcheck:assessment:pending:01HZX"
	expectedValue := `{"id":"01HZX"}`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(expectedValue)
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, expectedValue, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pawcheck:assessment:pending:01HZX"
	value := `{"id":"01HZX"}`
	expiration := 30 * time.Minute

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(key, value, expiration).SetVal("OK")
		err := adapter.Set(ctx, key, value, expiration)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectSet(key, value, expiration).SetErr(redisErr)
		err := adapter.Set(ctx, key, value, expiration)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pawcheck:assessment:pending:01HZX"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(1) // 1 key deleted
		err := adapter.Delete(ctx, key)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SuccessKeyNotFound", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(0) // 0 keys deleted
		err := adapter.Delete(ctx, key)
		assert.NoError(t, err) // Delete should not error if key not found
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectDel(key).SetErr(redisErr)
		err := adapter.Delete(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectPing().SetVal("PONG")
		err := adapter.Ping(ctx)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectPing().SetErr(redisErr)
		err := adapter.Ping(ctx)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_AppendCapped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pawcheck:assessment:history:pet-1"
	value := `{"id":"01HZX"}`

	t.Run("Success", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectRPush(key, value).SetVal(21)
		mock.ExpectLTrim(key, -20, -1).SetVal("OK")
		mock.ExpectTxPipelineExec()

		err := adapter.AppendCapped(ctx, key, value, 20)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectTxPipeline()
		mock.ExpectRPush(key, value).SetErr(redisErr)
		mock.ExpectLTrim(key, -20, -1).SetVal("OK")
		mock.ExpectTxPipelineExec()

		err := adapter.AppendCapped(ctx, key, value, 20)
		assert.Error(t, err)
	})
}

func TestRedisCacheAdapter_ListTail(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	key := "pawcheck:assessment:history:pet-1"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectLRange(key, -2, -1).SetVal([]string{"a", "b"})
		vals, err := adapter.ListTail(ctx, key, 2)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, vals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingKey", func(t *testing.T) {
		mock.ExpectLRange(key, -5, -1).SetVal([]string{})
		vals, err := adapter.ListTail(ctx, key, 5)
		assert.NoError(t, err)
		assert.Empty(t, vals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonPositiveCount", func(t *testing.T) {
		vals, err := adapter.ListTail(ctx, key, 0)
		assert.NoError(t, err)
		assert.Empty(t, vals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectLRange(key, -5, -1).SetErr(redisErr)
		vals, err := adapter.ListTail(ctx, key, 5)
		assert.ErrorIs(t, err, redisErr)
		assert.Nil(t, vals)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
