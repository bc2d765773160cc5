package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/pkg/errors"
	"go.uber.org/zap"
)

// ErrDocumentTooLarge is wrapped when a fetched document exceeds the size limit.
var ErrDocumentTooLarge = stderrors.New("document too large")

type HTTPSource struct {
	url        string
	httpClient *http.Client
	maxBytes   int64
	logger     *zap.Logger
}

func NewHTTPSource(url string, client *http.Client, logger *zap.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		url:        url,
		httpClient: client,
		maxBytes:   constants.SourceConfig.MaxDocumentBytes,
		logger:     logger,
	}
}

func (s *HTTPSource) Location() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.url, 0, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.SourceConfig.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Profile document request failed", zap.String("url", s.url), zap.Error(err))
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("Profile document request returned non-success status",
			zap.String("url", s.url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewSourceUnavailableError(
			constants.SourceConfig.LoadFailedMessage,
			s.url,
			resp.StatusCode,
			fmt.Errorf("unexpected status: %s", resp.Status),
		)
	}

	// One byte past the limit tells an oversized document from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, errors.NewSourceUnavailableError(constants.SourceConfig.LoadFailedMessage, s.url, resp.StatusCode, err)
	}
	if int64(len(body)) > s.maxBytes {
		s.logger.Error("Profile document too large",
			zap.String("url", s.url),
			zap.Int64("limit_bytes", s.maxBytes),
		)
		return nil, errors.NewSourceUnavailableError(
			constants.SourceConfig.LoadFailedMessage,
			s.url,
			resp.StatusCode,
			fmt.Errorf("%w: exceeds %d bytes", ErrDocumentTooLarge, s.maxBytes),
		)
	}
	return body, nil
}
