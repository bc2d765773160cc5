package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/kapu/isv-directory/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Extractor turns DOCX reports into profile documents.
type Extractor struct {
	concurrency int
	logger      *zap.Logger
}

func NewExtractor(concurrency int, logger *zap.Logger) *Extractor {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{concurrency: concurrency, logger: logger}
}

// ExtractFile reads the DOCX at path and builds its profile document.
func (e *Extractor) ExtractFile(path string) (*domain.ProfileDocument, error) {
	documentXML, err := ReadDocumentXML(path)
	if err != nil {
		return nil, err
	}
	sections, err := ParseSections(documentXML)
	if err != nil {
		return nil, err
	}

	doc := e.Build(sections)
	e.logger.Info("Profiles extracted",
		zap.String("input", path),
		zap.Int("sections", len(sections)),
		zap.Int("profiles", len(doc.Profiles)),
	)
	return doc, nil
}

// Build creates one profile per section, keeping section order.
func (e *Extractor) Build(sections []Section) *domain.ProfileDocument {
	p := pool.New().WithMaxGoroutines(e.concurrency)

	profiles := make([]domain.Profile, len(sections))
	profilesMu := sync.Mutex{}

	for idx, section := range sections {
		idx, section := idx, section
		p.Go(func() {
			profile := domain.Profile{
				Name:    section.Name,
				Answers: BuildAnswers(section.Content),
			}
			profilesMu.Lock()
			profiles[idx] = profile
			profilesMu.Unlock()
		})
	}

	p.Wait()

	return &domain.ProfileDocument{Profiles: profiles}
}

// Marshal encodes doc as indented JSON without HTML escaping.
func Marshal(doc *domain.ProfileDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFiles writes data to every path, creating parent directories.
func WriteFiles(data []byte, paths ...string) error {
	for _, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
