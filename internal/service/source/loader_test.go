package source

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kapu/isv-directory/internal/config"
	"github.com/kapu/isv-directory/internal/domain"
	"github.com/kapu/isv-directory/internal/service/docstore"
	"github.com/kapu/isv-directory/pkg/errors"
	"go.uber.org/zap"
)

const acmeDocument = `{"profiles":[{"name":"Acme Inc","answers":[{"question":"What do you build?","answer":"Widgets"}]}]}`

type staticSource struct {
	data []byte
	err  error
}

func (s staticSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }
func (s staticSource) Location() string                      { return "static" }

type fakeReader struct {
	docs map[string][]byte
	err  error
}

func (f *fakeReader) GetDocument(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[key]
	if !ok {
		return nil, docstore.ErrDocumentNotFound
	}
	return doc, nil
}

func TestLoaderDecodesProfiles(t *testing.T) {
	profiles, err := NewLoader(staticSource{data: []byte(acmeDocument)}, zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Profile{{
		Name:    "Acme Inc",
		Answers: []domain.QAPair{{Question: "What do you build?", Answer: "Widgets"}},
	}}
	if diff := cmp.Diff(want, profiles); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderDefaultsMissingFields(t *testing.T) {
	cases := map[string]string{
		"absent profiles":   `{}`,
		"null profiles":     `{"profiles":null}`,
		"other fields only": `{"version":"1"}`,
	}
	for name, doc := range cases {
		profiles, err := NewLoader(staticSource{data: []byte(doc)}, nil).Load(context.Background())
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", name, err)
		}
		if profiles == nil || len(profiles) != 0 {
			t.Fatalf("%s: expected empty non-nil slice, got %#v", name, profiles)
		}
	}

	profiles, err := NewLoader(staticSource{data: []byte(`{"profiles":[{"name":"Bare"},{"name":"Nulls","answers":[{"question":null,"answer":null}]}]}`)}, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("expected optional fields to be tolerated, got %v", err)
	}
	if len(profiles) != 2 || profiles[0].Answers != nil || profiles[1].Answers[0] != (domain.QAPair{}) {
		t.Fatalf("unexpected defaults %#v", profiles)
	}
}

func TestLoaderMalformedDocument(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`[{"name":"Acme"}]`,
		`null`,
		`{"profiles":"Acme"}`,
		`{"profiles":[{"name":"Acme","answers":[{"answer":42}]}]}`,
		`{"profiles":[`,
	}
	for _, doc := range cases {
		_, err := NewLoader(staticSource{data: []byte(doc)}, nil).Load(context.Background())
		if !errors.IsMalformedSource(err) {
			t.Fatalf("Load(%q) error = %v, want MalformedSource", doc, err)
		}
	}
}

func TestLoaderPassesThroughSourceFailure(t *testing.T) {
	failure := errors.NewSourceUnavailableError("Failed to load data", "static", 500, nil)
	_, err := NewLoader(staticSource{err: failure}, nil).Load(context.Background())
	if !errors.IsSourceUnavailable(err) {
		t.Fatalf("expected SourceUnavailable, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/isv_profiles.json":
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("unexpected Accept header %q", r.Header.Get("Accept"))
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(acmeDocument))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ok := NewHTTPSource(server.URL+"/data/isv_profiles.json", server.Client(), nil)
	profiles, err := NewLoader(ok, nil).Load(context.Background())
	if err != nil || len(profiles) != 1 {
		t.Fatalf("expected one profile, got %v (err %v)", profiles, err)
	}

	missing := NewHTTPSource(server.URL+"/missing.json", server.Client(), nil)
	_, err = missing.Fetch(context.Background())
	var unavailable *errors.SourceUnavailableError
	if !stderrors.As(err, &unavailable) {
		t.Fatalf("expected SourceUnavailableError, got %v", err)
	}
	if unavailable.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 to be recorded, got %d", unavailable.StatusCode)
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src := NewHTTPSource(url, &http.Client{Timeout: time.Second}, nil)
	if _, err := src.Fetch(context.Background()); !errors.IsSourceUnavailable(err) {
		t.Fatalf("expected SourceUnavailable for closed server, got %v", err)
	}
}

func TestHTTPSourceRejectsOversizedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(acmeDocument))
	}))
	defer server.Close()

	exact := NewHTTPSource(server.URL, server.Client(), nil)
	exact.maxBytes = int64(len(acmeDocument))
	if data, err := exact.Fetch(context.Background()); err != nil || string(data) != acmeDocument {
		t.Fatalf("expected a document at the limit to load, got %q (err %v)", data, err)
	}

	small := NewHTTPSource(server.URL, server.Client(), nil)
	small.maxBytes = int64(len(acmeDocument)) - 1
	_, err := NewLoader(small, nil).Load(context.Background())
	if !errors.IsSourceUnavailable(err) || errors.IsMalformedSource(err) {
		t.Fatalf("expected SourceUnavailable for oversized document, got %v", err)
	}
	if !stderrors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "isv_profiles.json")
	if err := os.WriteFile(path, []byte(acmeDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := NewFileSource(path).Fetch(context.Background())
	if err != nil || string(data) != acmeDocument {
		t.Fatalf("unexpected read %q, err %v", data, err)
	}

	if _, err := NewFileSource(filepath.Join(dir, "nope.json")).Fetch(context.Background()); !errors.IsSourceUnavailable(err) {
		t.Fatalf("expected SourceUnavailable for missing file, got %v", err)
	}
}

func TestStoreSource(t *testing.T) {
	reader := &fakeReader{docs: map[string][]byte{"isv:profiles:document": []byte(acmeDocument)}}

	data, err := NewStoreSource(reader, "isv:profiles:document", "redis:isv:profiles:document").Fetch(context.Background())
	if err != nil || string(data) != acmeDocument {
		t.Fatalf("unexpected document %q, err %v", data, err)
	}

	_, err = NewStoreSource(reader, "other", "redis:other").Fetch(context.Background())
	if !errors.IsSourceUnavailable(err) || !stderrors.Is(err, docstore.ErrDocumentNotFound) {
		t.Fatalf("expected SourceUnavailable wrapping ErrDocumentNotFound, got %v", err)
	}
}

func TestOpenSelectsSourceByLocation(t *testing.T) {
	cfg := &config.Config{Source: config.SourceConfig{FetchTimeout: time.Second}}

	cfg.Source.Location = "https://example.test/data/isv_profiles.json"
	src, closeFn, err := Open(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	closeFn()
	if _, ok := src.(*HTTPSource); !ok {
		t.Fatalf("expected HTTPSource, got %T", src)
	}

	cfg.Source.Location = "file:///tmp/isv_profiles.json"
	src, closeFn, err = Open(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	closeFn()
	if fs, ok := src.(*FileSource); !ok || fs.Location() != "/tmp/isv_profiles.json" {
		t.Fatalf("expected FileSource for /tmp/isv_profiles.json, got %#v", src)
	}
}

func TestKeyAfter(t *testing.T) {
	cases := []struct {
		location, scheme, fallback, want string
	}{
		{"redis", redisScheme, "isv:profiles:document", "isv:profiles:document"},
		{"redis:", redisScheme, "isv:profiles:document", "isv:profiles:document"},
		{"redis:custom:key", redisScheme, "x", "custom:key"},
		{"postgres", postgresScheme, "default", "default"},
		{"postgres:france-2026", postgresScheme, "default", "france-2026"},
	}
	for _, tc := range cases {
		if got := keyAfter(tc.location, tc.scheme, tc.fallback); got != tc.want {
			t.Errorf("keyAfter(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestParseStoreLocation(t *testing.T) {
	cases := []struct {
		name     string
		location string
		scheme   string
		fallback string
		want     storeLocation
	}{
		{
			name:     "redis shorthand",
			location: "redis:custom:key",
			scheme:   redisScheme,
			fallback: "isv:profiles:document",
			want:     storeLocation{key: "custom:key", location: "redis:custom:key"},
		},
		{
			name:     "redis URL with key",
			location: "redis://cache:6379/2?key=isv:doc",
			scheme:   redisScheme,
			fallback: "isv:profiles:document",
			want:     storeLocation{url: "redis://cache:6379/2", key: "isv:doc", location: "redis://cache:6379/2?key=isv:doc"},
		},
		{
			name:     "redis URL keeps other options",
			location: "rediss://:secret@cache:6380/0?dial_timeout=3s",
			scheme:   redisScheme,
			fallback: "isv:profiles:document",
			want: storeLocation{
				url:      "rediss://:secret@cache:6380/0?dial_timeout=3s",
				key:      "isv:profiles:document",
				location: "rediss://:xxxxx@cache:6380/0?dial_timeout=3s",
			},
		},
		{
			name:     "postgres URL",
			location: "postgres://u:p@db:5432/isv?sslmode=disable&key=france-2026",
			scheme:   postgresScheme,
			fallback: "default",
			want: storeLocation{
				url:      "postgres://u:p@db:5432/isv?sslmode=disable",
				key:      "france-2026",
				location: "postgres://u:xxxxx@db:5432/isv?sslmode=disable&key=france-2026",
			},
		},
		{
			name:     "postgres URL without key",
			location: "postgresql://db/isv",
			scheme:   postgresScheme,
			fallback: "default",
			want:     storeLocation{url: "postgresql://db/isv", key: "default", location: "postgresql://db/isv"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseStoreLocation(tc.location, tc.scheme, tc.fallback)
			if err != nil {
				t.Fatalf("parseStoreLocation(%q) error = %v", tc.location, err)
			}
			if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(storeLocation{})); diff != "" {
				t.Fatalf("parseStoreLocation(%q) mismatch (-want +got):\n%s", tc.location, diff)
			}
		})
	}

	if _, err := parseStoreLocation("redis://", redisScheme, "x"); err == nil {
		t.Fatalf("expected error for a URL without a server")
	}
}
