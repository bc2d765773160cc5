package source

import (
	"context"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/internal/service/docstore"
	"github.com/kapu/isv-directory/pkg/errors"
)

// StoreSource reads a document published with `isvdir publish`.
type StoreSource struct {
	store    docstore.Reader
	key      string
	location string
}

func NewStoreSource(store docstore.Reader, key, location string) *StoreSource {
	return &StoreSource{store: store, key: key, location: location}
}

func (s *StoreSource) Location() string {
	return s.location
}

func (s *StoreSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.store.GetDocument(ctx, s.key)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.location, 0, err)
	}
	return data, nil
}
