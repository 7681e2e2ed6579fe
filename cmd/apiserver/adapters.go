package main

import (
	"context"
	"fmt"

	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres"
	"github.com/compsred/comps-engine/internal/infrastructure/database/redis"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/internal/infrastructure/storage/minio"
)

// Health check adapters for the readiness probe.

type postgresHealthAdapter struct {
	conn *postgres.Connection
}

func (a *postgresHealthAdapter) Name() string {
	return "postgres"
}

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string {
	return "redis"
}

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// kafkaHealthAdapter dials a broker per check rather than holding a
// connection open.
type kafkaHealthAdapter struct {
	brokers []string
	logger  logging.Logger
}

func (a *kafkaHealthAdapter) Name() string {
	return "kafka"
}

func (a *kafkaHealthAdapter) Check(ctx context.Context) error {
	tm, err := kafka.NewTopicManager(a.brokers, a.logger)
	if err != nil {
		return err
	}
	defer tm.Close()

	_, err = tm.ListTopics(ctx)
	return err
}

type minioHealthAdapter struct {
	client *minio.MinIOClient
}

func (a *minioHealthAdapter) Name() string {
	return "minio"
}

func (a *minioHealthAdapter) Check(ctx context.Context) error {
	status, err := a.client.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if !status.Healthy {
		return fmt.Errorf("minio unhealthy: %s", status.Error)
	}
	return nil
}

//Personal.AI order the ending
