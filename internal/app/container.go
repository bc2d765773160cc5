package app

import (
	"context"
	"fmt"

	"github.com/kapu/isv-directory/internal/config"
	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/internal/domain"
	"github.com/kapu/isv-directory/internal/service/directory"
	"github.com/kapu/isv-directory/internal/service/source"
	"github.com/kapu/isv-directory/internal/web"
	"github.com/kapu/isv-directory/pkg/errors"
	"go.uber.org/zap"
)

// Container bundles the loaded directory with the resources it holds open.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Directory *directory.Controller

	closers []func()
}

// NewServer builds the web server over the loaded directory.
func (c *Container) NewServer() (*web.Server, error) {
	if c == nil || c.Directory == nil {
		return nil, fmt.Errorf("directory not initialized")
	}
	return web.NewServer(c.Directory, c.Logger)
}

// Close releases store connections opened by Build.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build opens the configured document source and loads the directory once.
// A source that cannot be opened or read does not fail Build: the directory
// carries the failure and renders it as the error card.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container := &Container{Config: cfg, Logger: logger}

	var loader directory.ProfileLoader
	src, closeSource, err := source.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to open document source",
			zap.String("location", cfg.Source.Location),
			zap.Error(err),
		)
		loader = unavailableLoader{err: errors.NewSourceUnavailableError(
			constants.SourceConfig.LoadFailedMessage, cfg.Source.Location, 0, err)}
	} else {
		container.closers = append(container.closers, closeSource)
		loader = source.NewLoader(src, logger)
	}

	renderer := directory.NewRenderer(cfg.Render.WordBudget, cfg.Render.ParallelThreshold)
	container.Directory = directory.NewController(ctx, loader, renderer, logger)
	return container, nil
}

type unavailableLoader struct {
	err error
}

func (l unavailableLoader) Load(context.Context) ([]domain.Profile, error) {
	return nil, l.err
}
