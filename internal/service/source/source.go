package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kapu/isv-directory/internal/config"
	"github.com/kapu/isv-directory/internal/service/docstore"
	"go.uber.org/zap"
)

// DocumentSource yields the raw profile document. Failures to retrieve it are
// reported as *errors.SourceUnavailableError.
type DocumentSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

const (
	redisScheme    = "redis:"
	postgresScheme = "postgres:"
	fileScheme     = "file://"
)

// Open picks the DocumentSource named by cfg.Source.Location:
//
//	http://… or https://…           HTTP GET
//	redis[:key]                      Redis string key (default REDIS_DOCUMENT_KEY) on REDIS_*
//	redis://host:port/db?key=…       same, on the server named by the URL (rediss:// too)
//	postgres[:key]                   latest profile_documents row for key (default "default") on POSTGRES_*
//	postgres://…?key=…               same, on the server named by the URL (postgresql:// too)
//	anything else                    local file path, optionally file:// prefixed
//
// The returned close func releases store connections and is never nil.
func Open(cfg *config.Config, logger *zap.Logger) (DocumentSource, func(), error) {
	location := strings.TrimSpace(cfg.Source.Location)
	noop := func() {}

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		client := &http.Client{Timeout: cfg.Source.FetchTimeout}
		return NewHTTPSource(location, client, logger), noop, nil

	case location == "redis" || strings.HasPrefix(location, redisScheme) || strings.HasPrefix(location, "rediss://"):
		target, err := parseStoreLocation(location, redisScheme, cfg.Redis.DocumentKey)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open redis source: %w", err)
		}
		store, err := docstore.NewRedisStore(docstore.RedisConfig{
			URL:      target.url,
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open redis source: %w", err)
		}
		return NewStoreSource(store, target.key, target.location), func() { _ = store.Close() }, nil

	case location == "postgres" || strings.HasPrefix(location, postgresScheme) || strings.HasPrefix(location, "postgresql://"):
		target, err := parseStoreLocation(location, postgresScheme, "default")
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open postgres source: %w", err)
		}
		store, err := docstore.NewPostgresStore(docstore.PostgresConfig{
			URL:      target.url,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open postgres source: %w", err)
		}
		return NewStoreSource(store, target.key, target.location), func() { _ = store.Close() }, nil

	default:
		return NewFileSource(strings.TrimPrefix(location, fileScheme)), noop, nil
	}
}

// storeLocation is a redis or postgres location split into where to connect
// and which document key to read.
type storeLocation struct {
	// url is the connection URL without the key parameter. Empty means the
	// REDIS_* or POSTGRES_* settings.
	url string
	key string
	// location names the source in logs and errors, password redacted.
	location string
}

// parseStoreLocation accepts both the "scheme[:key]" shorthand and full
// connection URLs carrying the key in a "key" query parameter. The parameter
// is removed from the URL since neither go-redis nor lib/pq understands it.
func parseStoreLocation(location, scheme, fallback string) (storeLocation, error) {
	if !strings.Contains(location, "://") {
		key := keyAfter(location, scheme, fallback)
		return storeLocation{key: key, location: scheme + key}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store URL: %w", err)
	}
	if u.Host == "" && u.Path == "" {
		return storeLocation{}, fmt.Errorf("store URL %q names no server", u.Redacted())
	}

	query := u.Query()
	key := strings.TrimSpace(query.Get("key"))
	if key == "" {
		key = fallback
	}
	redacted := u.Redacted()

	query.Del("key")
	u.RawQuery = query.Encode()
	return storeLocation{url: u.String(), key: key, location: redacted}, nil
}

func keyAfter(location, scheme, fallback string) string {
	key := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(location, strings.TrimSuffix(scheme, ":")), ":"))
	if key == "" {
		return fallback
	}
	return key
}
