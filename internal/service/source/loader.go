package source

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/kapu/isv-directory/internal/domain"
	"github.com/kapu/isv-directory/pkg/errors"
	"go.uber.org/zap"
)

// Loader fetches the profile document once and decodes its profiles.
type Loader struct {
	source DocumentSource
	logger *zap.Logger
}

func NewLoader(source DocumentSource, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// Load returns the document's profiles, or an empty slice when the field is absent.
func (l *Loader) Load(ctx context.Context) ([]domain.Profile, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, errors.NewMalformedSourceError("invalid profile document", l.source.Location(), err)
	}

	l.logger.Info("Profile document loaded",
		zap.String("location", l.source.Location()),
		zap.Int("profiles", len(doc.Profiles)),
		zap.Int("bytes", len(data)),
	)
	return doc.Profiles, nil
}

// Decode parses a profiles document. The top level must be a JSON object.
func Decode(data []byte) (*domain.ProfileDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}

	var doc domain.ProfileDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Profiles == nil {
		doc.Profiles = []domain.Profile{}
	}
	return &doc, nil
}

var errNotObject = stderrors.New("document must be a JSON object")
