package directory

import (
	"context"
	"fmt"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/internal/domain"
	"go.uber.org/zap"
)

// ProfileLoader yields the profile collection once.
type ProfileLoader interface {
	Load(ctx context.Context) ([]domain.Profile, error)
}

// Controller owns the loaded collection and turns query values into views.
// The collection is never mutated after NewController returns, so View is safe
// for concurrent use.
type Controller struct {
	profiles []domain.Profile
	loadErr  error
	renderer *Renderer
	logger   *zap.Logger
}

// NewController loads the collection. A load failure is not returned: it is
// logged and every later View reports it as the error card.
func NewController(ctx context.Context, loader ProfileLoader, renderer *Renderer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = NewRenderer(constants.RenderConfig.DefaultWordBudget, 0)
	}

	c := &Controller{renderer: renderer, logger: logger}

	profiles, err := loader.Load(ctx)
	if err != nil {
		c.loadErr = err
		logger.Error("Failed to load profiles", zap.Error(err))
		return c
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	c.profiles = profiles

	logger.Info("Profiles loaded",
		zap.Int("profiles", len(profiles)),
		zap.Int("word_budget", renderer.Budget()),
	)
	return c
}

// Ready reports whether the collection loaded. Query wiring is only offered when it did.
func (c *Controller) Ready() bool {
	return c.loadErr == nil
}

// Err returns the load failure, if any.
func (c *Controller) Err() error {
	return c.loadErr
}

// Profiles returns the loaded collection. Callers must not modify it.
func (c *Controller) Profiles() []domain.Profile {
	return c.profiles
}

// View filters and renders the collection for query.
func (c *Controller) View(query string) domain.DirectoryView {
	if c.loadErr != nil {
		return domain.DirectoryView{
			Query: query,
			Cards: []domain.RenderedCard{},
			Error: &domain.ErrorCard{
				Title:   constants.RenderConfig.ErrorTitle,
				Message: c.loadErr.Error(),
			},
		}
	}

	filtered := Filter(c.profiles, query)
	view := domain.DirectoryView{
		Query:      query,
		Count:      len(filtered),
		CountLabel: fmt.Sprintf(constants.RenderConfig.CountLabelFormat, len(filtered)),
		Cards:      c.renderer.RenderAll(filtered),
	}

	c.logger.Debug("Rendered view",
		zap.String("query", query),
		zap.Int("matched", view.Count),
	)
	return view
}
