package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresConfig struct {
	// URL, when set, is a postgres:// connection URL and replaces the fields below.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the lib/pq connection string for cfg. lib/pq accepts URLs as is.
func (cfg PostgresConfig) DSN() string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)
}

// target describes the server for logs without exposing the password.
func (cfg PostgresConfig) target() string {
	if cfg.URL != "" {
		if u, err := url.Parse(cfg.URL); err == nil {
			return u.Redacted()
		}
		return "postgres URL"
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS profile_documents (
	id            BIGSERIAL PRIMARY KEY,
	doc_key       TEXT        NOT NULL,
	document      JSONB       NOT NULL,
	profile_count INTEGER     NOT NULL,
	origin        TEXT        NOT NULL DEFAULT '',
	published_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS profile_documents_key_idx ON profile_documents (doc_key, id DESC);
`

// PostgresStore appends every published document as a new row; reads return
// the most recent row for a key.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(cfg PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("PostgreSQL connected", zap.String("target", cfg.target()))

	return NewPostgresStoreFromDB(db, logger), nil
}

func NewPostgresStoreFromDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema creates the profile_documents table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create profile_documents schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT document
		FROM profile_documents
		WHERE doc_key = $1
		ORDER BY id DESC
		LIMIT 1
	`

	var document []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile document %q: %w", key, err)
	}
	return document, nil
}

func (s *PostgresStore) PutDocument(ctx context.Context, key string, document []byte, meta Meta) error {
	query := `
		INSERT INTO profile_documents (doc_key, document, profile_count, origin, published_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	publishedAt := meta.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	if _, err := s.db.ExecContext(ctx, query, key, string(document), meta.ProfileCount, meta.Origin, publishedAt); err != nil {
		return fmt.Errorf("failed to insert profile document %q: %w", key, err)
	}

	s.logger.Info("Document published to PostgreSQL",
		zap.String("key", key),
		zap.Int("profiles", meta.ProfileCount),
	)
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
