package source

import (
	"context"
	"os"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/pkg/errors"
)

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Location() string {
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.path, 0, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.path, 0, err)
	}
	return data, nil
}
