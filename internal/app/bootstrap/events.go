package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/material-scheduler/internal/config"
	"github.com/wolfman30/material-scheduler/internal/events"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// Event backends accepted by EVENTS_BACKEND.
const (
	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendSQS   = "sqs"
)

// BuildEventPublisher picks the appointment event transport. It returns nil
// when events are disabled.
func BuildEventPublisher(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, loadAWS AWSConfigLoader, logger *logging.Logger) (events.Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch backend := strings.ToLower(strings.TrimSpace(cfg.EventsBackend)); backend {
	case "", EventsBackendNone:
		logger.Info("appointment events disabled")
		return nil, nil
	case EventsBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("bootstrap: events backend redis needs REDIS_ADDR")
		}
		logger.Info("appointment events to redis", "key", cfg.EventsRedisKey, "max_len", cfg.EventsMaxLen)
		return events.NewRedisJournal(redisClient, cfg.EventsRedisKey, int64(cfg.EventsMaxLen)), nil
	case EventsBackendSQS:
		if strings.TrimSpace(cfg.EventsQueueURL) == "" {
			return nil, fmt.Errorf("bootstrap: events backend sqs needs EVENTS_QUEUE_URL")
		}
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: events backend sqs needs aws config")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		logger.Info("appointment events to sqs", "queue_url", cfg.EventsQueueURL)
		return events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown events backend %q", backend)
	}
}
