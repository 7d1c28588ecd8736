// Package archive persists raw HTML snapshots to local disk for
// debugging extraction against the live site.
package archive

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileSink saves page snapshots under a root directory.
type FileSink struct {
	root     string
	maxBytes int64
	logger   *zap.Logger
}

// NewFileSink returns a sink rooted at dir.
func NewFileSink(root string, maxBytes int64, logger *zap.Logger) (*FileSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{root: root, maxBytes: maxBytes, logger: logger}, nil
}

// Save writes one HTML snapshot and returns its path. Oversized or empty
// bodies are rejected.
func (s *FileSink) Save(pageURL string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("empty page body")
	}
	if s.maxBytes > 0 && int64(len(body)) > s.maxBytes {
		return "", fmt.Errorf("page size %d exceeds max %d", len(body), s.maxBytes)
	}
	target := filepath.Join(s.root, safeBasename(pageURL)+".html")
	if err := os.WriteFile(target, body, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", target, err)
	}
	s.logger.Debug("snapshot archived", zap.String("url", pageURL), zap.String("path", target))
	return target, nil
}

func safeBasename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return hashURL(raw)
	}
	host := invalidFilenameChars.ReplaceAllString(u.Hostname(), "_")
	p := strings.Trim(u.EscapedPath(), "/")
	if q := u.RawQuery; q != "" {
		p += "_" + q
	}
	if p == "" {
		p = "root"
	}
	p = invalidFilenameChars.ReplaceAllString(p, "_")
	return fmt.Sprintf("%s_%s_%s", host, p, hashURL(raw)[:16])
}

func hashURL(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
