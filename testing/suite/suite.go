package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-history/internal/repository/storage"
)

const (
	redisImage       = "redis"
	redisTag         = "7-alpine"
	redisExposedPort = "6379/tcp"

	containerLifetime = 120 // seconds
	startupTimeout    = 120 * time.Second
)

// Suite - a throwaway redis for repository tests.
type Suite struct {
	*testing.T

	Storage *redis.Client
	Addr    string
}

// New - starts a redis container for one test and connects to it the same way the service does.
// The test is skipped when docker is not reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	pool.MaxWait = startupTimeout

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// docker kills the container even if cleanup never runs
	_ = container.Expire(containerLifetime)

	addr := container.GetHostPort(redisExposedPort)

	var client *redis.Client
	err = pool.Retry(func() error {
		var connErr error
		client, connErr = storage.NewRedisStorage(ctx, addr)
		return connErr
	})
	if err != nil {
		_ = pool.Purge(container)
		t.Fatalf("redis did not come up at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		_ = client.Close()

		if purgeErr := pool.Purge(container); purgeErr != nil {
			t.Errorf("could not purge redis container: %v", purgeErr)
		}
	})

	return ctx, &Suite{
		T:       t,
		Storage: client,
		Addr:    addr,
	}
}
