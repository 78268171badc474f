package github_http

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResponseDump persists raw response bodies for debugging. Failures are
// warned about and otherwise ignored; a broken dump directory must never
// break a fetch.
type ResponseDump struct {
	log *zap.Logger
}

func NewResponseDump(log *zap.Logger) *ResponseDump {
	return &ResponseDump{log: log}
}

func (d *ResponseDump) Write(dir, endpoint string, body []byte) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		d.log.Warn("creating response dump directory failed", zap.String("dir", dir), zap.Error(err))
		return
	}

	name := fmt.Sprintf("%s_%s.json",
		time.Now().Format("2006-01-02_15-04-05"),
		sanitizeEndpoint(endpoint),
	)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, body, 0o644); err != nil {
		d.log.Warn("writing response dump failed", zap.String("path", path), zap.Error(err))
		return
	}
	d.log.Debug("response dumped", zap.String("path", path))
}

func sanitizeEndpoint(endpoint string) string {
	return strings.Trim(strings.ReplaceAll(endpoint, "/", "_"), "_")
}
