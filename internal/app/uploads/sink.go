// Package uploads stores submitted asset files and hands back the relative
// reference recorded on the asset.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// Sink persists an uploaded file and returns its stable reference. Remove
// discards a stored file by that reference; removing an absent file is not
// an error.
type Sink interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// DiskSink writes uploads to a local directory.
type DiskSink struct {
	dir      string
	maxBytes int64
	log      *logger.Logger
}

// NewDiskSink creates dir if needed. maxBytes <= 0 disables the limit.
func NewDiskSink(dir string, maxBytes int64, log *logger.Logger) (*DiskSink, error) {
	if log == nil {
		log = logger.NewDefault("uploads")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskSink{dir: dir, maxBytes: maxBytes, log: log}, nil
}

// Dir returns the directory files are written to.
func (s *DiskSink) Dir() string { return s.dir }

// Save writes r to "<uuid>-<name>" and returns "/uploads/<uuid>-<name>". A
// partially written file is removed on failure.
func (s *DiskSink) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + "-" + SanitizeName(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	written, err := io.Copy(f, &contextReader{ctx: ctx, r: src})
	closeErr := f.Close()
	switch {
	case err != nil:
	case s.maxBytes > 0 && written > s.maxBytes:
		err = svcerrors.Validation("file exceeds %d bytes", s.maxBytes).WithDetails("reason", ErrTooLarge.Error())
	case closeErr != nil:
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	s.log.WithField("file", name).WithField("bytes", written).Info("upload stored")
	return URLPrefix + name, nil
}

// Remove deletes the file behind a reference returned by Save.
func (s *DiskSink) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(ref, URLPrefix)
	if name == ref || name == "" || name != filepath.Base(name) || name == ".." {
		return fmt.Errorf("invalid upload reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	s.log.WithField("file", name).Info("upload removed")
	return nil
}

// SanitizeName keeps the base name of filename with anything other than
// letters, digits, dot, dash and underscore replaced by '_'.
func SanitizeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = ""
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "upload"
	}
	if len(clean) > 128 {
		clean = clean[len(clean)-128:]
	}
	return clean
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
