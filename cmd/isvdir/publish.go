package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kapu/isv-directory/internal/service/docstore"
	"github.com/kapu/isv-directory/internal/service/source"
	"github.com/kapu/isv-directory/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	publishTo    string
	publishInput string
	publishKey   string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push a profiles document into Redis or PostgreSQL",
	Long: `Validates a profiles JSON document and stores it so "redis[:key]" or
"postgres[:key]" can be used as PROFILES_SOURCE.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&publishTo, "to", "redis", "Target store: redis or postgres")
	publishCmd.Flags().StringVarP(&publishInput, "input", "i", "web/data/isv_profiles.json", "Profiles document to publish")
	publishCmd.Flags().StringVar(&publishKey, "key", "", "Document key (default REDIS_DOCUMENT_KEY for redis, \"default\" for postgres)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(publishInput)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", publishInput, err)
	}
	doc, err := source.Decode(data)
	if err != nil {
		return fmt.Errorf("refusing to publish %s: %w", publishInput, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, key, err := openStore(ctx, publishTo, publishKey)
	if err != nil {
		return err
	}
	defer store.Close()

	meta := docstore.Meta{
		ProfileCount: len(doc.Profiles),
		Origin:       publishInput,
		PublishedAt:  time.Now(),
	}
	if err := store.PutDocument(ctx, key, data, meta); err != nil {
		return err
	}

	logger.Info("Profiles document published",
		zap.String("to", publishTo),
		zap.String("key", key),
		zap.Int("profiles", meta.ProfileCount),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d profiles to %s:%s\n", meta.ProfileCount, publishTo, key)
	return nil
}

func openStore(ctx context.Context, target, key string) (docstore.Store, string, error) {
	switch target {
	case "redis":
		if key == "" {
			key = cfg.Redis.DocumentKey
		}
		store, err := docstore.NewRedisStore(docstore.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil

	case "postgres":
		if key == "" {
			key = "default"
		}
		store, err := docstore.NewPostgresStore(docstore.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, "", err
		}
		return store, key, nil

	default:
		return nil, "", errors.NewValidationError("publish target must be redis or postgres", "to", target)
	}
}
