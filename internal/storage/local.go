package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"stickershop/internal/logging"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// LocalStore keeps uploaded artwork in a directory on local disk.
type LocalStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocal returns a LocalStore rooted at dir. Relative paths resolve against
// the working directory. The directory is created on first write.
func NewLocal(dir string, logger *zap.Logger) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %q: %w", dir, err)
	}
	return &LocalStore{dir: abs, logger: logging.OrNop(logger)}, nil
}

// Dir returns the absolute storage directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes data under "<unix millis of at>_<sanitized name>" and returns the
// full path. Two saves of the same name within one millisecond overwrite each other.
func (s *LocalStore) Save(ctx context.Context, at time.Time, originalName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := StoredName(at, originalName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	s.logger.Debug("artwork stored", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// ReadFile reads back a previously stored file.
func (s *LocalStore) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// StoredName derives the on-disk file name for an upload.
func StoredName(at time.Time, originalName string) string {
	base := filepath.Base(originalName)
	if base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	return strconv.FormatInt(at.UnixMilli(), 10) + "_" + SanitizeName(base)
}

// SanitizeName replaces every character outside [a-zA-Z0-9.-] with an underscore.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}
