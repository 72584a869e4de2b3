package main

import (
	"context"

	"github.com/turtacn/netmodel/internal/infrastructure/database/redis"
	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
)

// minioHealth adapts the object store client to handlers.HealthChecker.
type minioHealth struct {
	client *minio.MinIOClient
}

func (a minioHealth) Name() string {
	return "minio"
}

func (a minioHealth) Check(ctx context.Context) error {
	_, err := a.client.HealthCheck(ctx)
	return err
}

// redisHealth adapts the result cache to handlers.HealthChecker.
type redisHealth struct {
	cache redis.Cache
}

func (a redisHealth) Name() string {
	return "redis"
}

func (a redisHealth) Check(ctx context.Context) error {
	return a.cache.Ping(ctx)
}
