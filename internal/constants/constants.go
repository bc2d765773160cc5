package constants

import "time"

var RenderConfig = struct {
	DefaultWordBudget int
	Ellipsis          string
	TrimNoticeFormat  string
	CountLabelFormat  string
	ErrorTitle        string
}{
	DefaultWordBudget: 200,
	Ellipsis:          "…",
	TrimNoticeFormat:  "Trimmed to %d words.",
	CountLabelFormat:  "%d ISVs",
	ErrorTitle:        "Error",
}

var SourceConfig = struct {
	LoadFailedMessage string
	UserAgent         string
	MaxDocumentBytes  int64
}{
	LoadFailedMessage: "Failed to load data",
	UserAgent:         "Mozilla/5.0 (compatible; ISVDirectory/1.0)",
	MaxDocumentBytes:  32 << 20,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var WebSocketConfig = struct {
	ReadLimit    int64
	WriteTimeout time.Duration
	PongWait     time.Duration
	PingInterval time.Duration
}{
	ReadLimit:    4 << 10, // queries are short text values
	WriteTimeout: 10 * time.Second,
	PongWait:     60 * time.Second,
	PingInterval: 54 * time.Second,
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
}{
	ReadHeaderTimeout: 10 * time.Second,
}
