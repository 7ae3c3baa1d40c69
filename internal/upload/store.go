// Package upload stores user-submitted images on local disk under collision-free names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// DefaultMaxBytes caps a single upload at 10 MiB.
const DefaultMaxBytes int64 = 10 << 20

// ErrTooLarge is returned when the content exceeds the store's size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	safeExt     = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)
)

type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates dir if needed.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save writes r under a name derived from original and returns that name.
func (s *Store) Save(original string, r io.Reader) (string, error) {
	name := FileName(original, ulid.Make())
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// FileName builds "<sanitized base>-<id><ext>" from the client-supplied name.
func FileName(original string, id ulid.ULID) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := filepath.Ext(base)
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	stem := unsafeChars.ReplaceAllString(strings.TrimSuffix(base, filepath.Ext(base)), "_")
	if stem == "" || strings.Trim(stem, "_") == "" {
		stem = "image"
	}
	return stem + "-" + id.String() + strings.ToLower(ext)
}
