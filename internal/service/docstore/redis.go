package docstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfig struct {
	// URL, when set, is a redis:// or rediss:// URL and replaces the fields below.
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// Options builds the go-redis client options for cfg.
func (cfg RedisConfig) Options() (*redis.Options, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, errors.NewValidationError("invalid redis URL", "url", err.Error())
		}
		opts = parsed
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 4
	}
	return opts, nil
}

// RedisStore keeps each document as a plain string key with a sibling
// "<key>:meta" hash describing it.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
	)

	return &RedisStore{
		client: client,
		logger: logger,
	}, nil
}

func metaKey(key string) string {
	return key + ":meta"
}

func (s *RedisStore) GetDocument(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		s.logger.Error("Document get failed", zap.String("key", key), zap.Error(err))
		return nil, errors.NewCacheError("get failed", "get", key, err)
	}
	return value, nil
}

// PutDocument replaces the document and its metadata in one transaction.
func (s *RedisStore) PutDocument(ctx context.Context, key string, document []byte, meta Meta) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, document, 0)
		pipe.Del(ctx, metaKey(key))
		pipe.HSet(ctx, metaKey(key),
			"profiles", strconv.Itoa(meta.ProfileCount),
			"origin", meta.Origin,
			"published_at", meta.PublishedAt.UTC().Format(time.RFC3339),
		)
		return nil
	})
	if err != nil {
		s.logger.Error("Document publish failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("publish failed", "set", key, err)
	}

	s.logger.Info("Document published to Redis",
		zap.String("key", key),
		zap.Int("profiles", meta.ProfileCount),
		zap.Int("bytes", len(document)),
	)
	return nil
}

// GetMeta returns the metadata written by PutDocument.
func (s *RedisStore) GetMeta(ctx context.Context, key string) (Meta, error) {
	fields, err := s.client.HGetAll(ctx, metaKey(key)).Result()
	if err != nil {
		return Meta{}, errors.NewCacheError("hgetall failed", "hgetall", metaKey(key), err)
	}
	if len(fields) == 0 {
		return Meta{}, ErrDocumentNotFound
	}
	return parseMeta(fields), nil
}

func parseMeta(fields map[string]string) Meta {
	meta := Meta{Origin: fields["origin"]}
	if n, err := strconv.Atoi(fields["profiles"]); err == nil {
		meta.ProfileCount = n
	}
	if ts, err := time.Parse(time.RFC3339, fields["published_at"]); err == nil {
		meta.PublishedAt = ts
	}
	return meta
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	s.logger.Info("Redis disconnected")
	return nil
}
