package utils

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiLogHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debugH := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warnH := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(NewMultiLogHandler(debugH, nil, warnH))
	logger.Info("sync start", "owner", "acme")
	logger.Warn("sync slow")

	assert.Contains(t, debugBuf.String(), "sync start")
	assert.Contains(t, debugBuf.String(), "sync slow")
	assert.NotContains(t, warnBuf.String(), "sync start")
	assert.Contains(t, warnBuf.String(), "sync slow")
}

func TestMultiLogHandler_WithGroupAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiLogHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(h).WithGroup("http").With("route", "/api/talent")
	logger.Info("request")

	assert.Contains(t, buf.String(), "http.route=/api/talent")
}
