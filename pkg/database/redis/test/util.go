package test

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/lazor-kit/wallet-client/pkg/retry"
	"github.com/lazor-kit/wallet-client/pkg/retry/backoff"
)

const (
	containerName     = "redis"
	containerVersion  = "7-alpine"
	containerAutoKill = 120 * time.Second
	startupTimeout    = 30 * time.Second

	port = 6379
)

// StartRedis starts a Docker container using the redis image and returns a
// connected client for testing purposes.
func StartRedis(pool *dockertest.Pool) (client *redis.Client, closeFunc func(), err error) {
	closeFunc = func() {}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, closeFunc, errors.Wrapf(err, "failed to start resource")
	}

	closeFunc = func() {
		_ = pool.Purge(resource)
	}

	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	client = redis.NewClient(&redis.Options{
		Addr: resource.GetHostPort(fmt.Sprintf("%d/tcp", port)),
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	_, err = retry.Retry(
		ctx,
		func() error {
			return client.Ping(ctx).Err()
		},
		retry.Backoff(backoff.Constant(250*time.Millisecond), 250*time.Millisecond),
	)
	if err != nil {
		client.Close()
		closeFunc()
		return nil, func() {}, errors.Wrap(err, "timed out waiting for redis container to become available")
	}

	return client, closeFunc, nil
}
