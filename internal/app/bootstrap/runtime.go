package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/material-scheduler/internal/catalog"
	appconfig "github.com/wolfman30/material-scheduler/internal/config"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// AWSConfigLoader loads SDK configuration on first use, so binaries that use
// neither SQS nor SES never touch AWS credentials.
type AWSConfigLoader func(ctx context.Context) (aws.Config, error)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err, "addr", cfg.RedisAddr)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildCatalog loads CATALOG_FILE, or the built-in catalog when unset.
func BuildCatalog(cfg *appconfig.Config, logger *logging.Logger) (*catalog.Catalog, error) {
	if logger == nil {
		logger = logging.Default()
	}
	path := ""
	if cfg != nil {
		path = strings.TrimSpace(cfg.CatalogFile)
	}
	if path == "" {
		cat := catalog.Default()
		logger.Info("using built-in catalog", "products", cat.Len())
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", path, "products", cat.Len())
	return cat, nil
}
