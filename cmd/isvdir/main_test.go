package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kapu/isv-directory/internal/config"
	"github.com/kapu/isv-directory/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func testConfig(location string) *config.Config {
	return &config.Config{
		Source: config.SourceConfig{Location: location, FetchTimeout: 5 * time.Second},
		Render: config.RenderConfig{WordBudget: 200},
		Redis:  config.RedisConfig{DocumentKey: "isv:profiles:document"},
	}
}

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "isv_profiles.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write profiles: %v", err)
	}
	return path
}

func TestWriteView(t *testing.T) {
	view := domain.DirectoryView{
		CountLabel: "1 ISVs",
		Cards: []domain.RenderedCard{{
			Name: "Acme",
			Lines: []domain.CardLine{
				{Question: "Partner types", Answer: "technology partners"},
				{Answer: "bare answer"},
			},
			WasTrimmed: true,
			TrimNotice: "Trimmed to 200 words.",
		}},
	}

	var buf bytes.Buffer
	if err := writeView(&buf, view); err != nil {
		t.Fatalf("writeView() error = %v", err)
	}
	want := "1 ISVs\n\nAcme\n  Partner types: technology partners\n  bare answer\n  (Trimmed to 200 words.)\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	_ = writeView(&buf, domain.DirectoryView{Error: &domain.ErrorCard{Title: "Error", Message: "Failed to load data"}})
	if buf.String() != "Error\nFailed to load data\n" {
		t.Fatalf("unexpected error output %q", buf.String())
	}
}

func TestRunRender(t *testing.T) {
	logger = zap.NewNop()
	cfg = testConfig(writeProfiles(t, `{"profiles":[
		{"name":"Acme","answers":[{"question":"Q","answer":"widgets"}]},
		{"name":"Globex","answers":[{"answer":"gadgets"}]}
	]}`))
	renderQuery = "GADGET"
	renderJSON = false
	defer func() { renderQuery = "" }()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)

	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if got := out.String(); got != "1 ISVs\n\nGlobex\n  gadgets\n" {
		t.Fatalf("unexpected render output %q", got)
	}
}

func TestRunRenderReportsLoadFailure(t *testing.T) {
	logger = zap.NewNop()
	cfg = testConfig(filepath.Join(t.TempDir(), "missing.json"))

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)

	if err := runRender(cmd, nil); err == nil {
		t.Fatalf("expected runRender to fail for a missing document")
	}
	if !strings.HasPrefix(out.String(), "Error\n") {
		t.Fatalf("expected error card output, got %q", out.String())
	}
}

func TestRunPublishRejectsInvalidDocument(t *testing.T) {
	logger = zap.NewNop()
	cfg = testConfig("unused")
	publishInput = writeProfiles(t, `[1, 2, 3]`)
	publishTo = "redis"
	defer func() { publishInput = "web/data/isv_profiles.json" }()

	if err := runPublish(&cobra.Command{}, nil); err == nil {
		t.Fatalf("expected publish to refuse a non-object document")
	}
}

func TestOpenStoreUnknownTarget(t *testing.T) {
	cfg = testConfig("unused")
	if _, _, err := openStore(context.Background(), "s3", ""); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
