// Package testutils provides shared test helpers: an in-memory Redis
// server and fixture builders.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// CreateTestRedisClient starts an in-memory Redis server and returns a
// client connected to it plus a cleanup func.
func CreateTestRedisClient(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, cleanup
}
