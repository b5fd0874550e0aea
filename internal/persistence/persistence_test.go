package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/registry-service/internal/config"
)

func TestRedis_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Enabled: true, Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()
	ctx := context.Background()

	require.True(t, r.Enabled())
	require.NoError(t, r.Ping(ctx))

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, r.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, r.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestRedis_DisabledIsNoop(t *testing.T) {
	r := NewRedis(config.RedisConfig{Enabled: false}, zap.NewNop())
	ctx := context.Background()

	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(ctx))
	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, r.Delete(ctx, "k"))
	r.Close()
}

func TestNewPostgres_RequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)
}

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_submissions.sql", names[0])
	assert.IsNonDecreasing(t, names)
}
