package redis_test

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/redis"
)

type fakeStreams struct {
	added  []*goredis.XAddArgs
	err    error
	stored []goredis.XMessage
}

func (f *fakeStreams) XAdd(_ context.Context, a *goredis.XAddArgs) *goredis.StringCmd {
	f.added = append(f.added, a)
	return goredis.NewStringResult("1-0", f.err)
}

func (f *fakeStreams) XRevRangeN(_ context.Context, _, _, _ string, _ int64) *goredis.XMessageSliceCmd {
	return goredis.NewXMessageSliceCmdResult(f.stored, f.err)
}

func TestStreamLog(t *testing.T) {
	t.Parallel()

	t.Run("requires a stream key", func(t *testing.T) {
		t.Parallel()
		_, err := redis.NewStreamLog(&fakeStreams{}, redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyStream)
	})

	t.Run("write appends with approximate trimming", func(t *testing.T) {
		t.Parallel()
		f := &fakeStreams{}
		log, err := redis.NewStreamLog(f, redis.Config{Stream: "notifications", StreamMaxLen: 100})
		require.NoError(t, err)

		require.NoError(t, log.Write(context.Background(), "a", "found query: foo"))
		require.Len(t, f.added, 1)
		assert.Equal(t, "notifications", f.added[0].Stream)
		assert.Equal(t, int64(100), f.added[0].MaxLen)
		assert.True(t, f.added[0].Approx)
		assert.Equal(t, map[string]any{"email": "a", "message": "found query: foo"}, f.added[0].Values)
	})

	t.Run("write without trimming", func(t *testing.T) {
		t.Parallel()
		f := &fakeStreams{}
		log, err := redis.NewStreamLog(f, redis.Config{Stream: "n"})
		require.NoError(t, err)

		require.NoError(t, log.Write(context.Background(), "a", "b"))
		assert.Zero(t, f.added[0].MaxLen)
		assert.False(t, f.added[0].Approx)
	})

	t.Run("write error is wrapped", func(t *testing.T) {
		t.Parallel()
		log, err := redis.NewStreamLog(&fakeStreams{err: errors.New("READONLY")}, redis.Config{Stream: "n"})
		require.NoError(t, err)
		assert.ErrorIs(t, log.Write(context.Background(), "a", "b"), redis.ErrStreamWrite)
	})

	t.Run("recent decodes entries", func(t *testing.T) {
		t.Parallel()
		f := &fakeStreams{stored: []goredis.XMessage{
			{ID: "2-0", Values: map[string]any{"email": "b", "message": "second"}},
			{ID: "1-0", Values: map[string]any{"email": "a", "message": "first"}},
		}}
		log, err := redis.NewStreamLog(f, redis.Config{Stream: "n"})
		require.NoError(t, err)

		got, err := log.Recent(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, []redis.Notification{
			{ID: "2-0", Email: "b", Message: "second"},
			{ID: "1-0", Email: "a", Message: "first"},
		}, got)
	})
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.err)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, redis.Healthcheck(fakePinger{})(context.Background()))

	err := redis.Healthcheck(fakePinger{err: errors.New("connection refused")})(context.Background())
	assert.ErrorIs(t, err, redis.ErrHealthcheckFailed)
	assert.ErrorContains(t, err, "connection refused")
}
