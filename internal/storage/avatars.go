// Package storage keeps uploaded avatar images on an afero filesystem.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
)

var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AvatarStore saves avatars as <profileID>-<uuid>.<ext> under dir and builds
// their public URL from baseURL.
type AvatarStore struct {
	fs       afero.Fs
	dir      string
	baseURL  string
	maxBytes int64
}

func NewAvatarStore(fs afero.Fs, dir, baseURL string, maxBytes int64) *AvatarStore {
	return &AvatarStore{fs: fs, dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}
}

// NewOSAvatarStore stores avatars on the local disk.
func NewOSAvatarStore(dir, baseURL string, maxBytes int64) *AvatarStore {
	return NewAvatarStore(afero.NewOsFs(), dir, baseURL, maxBytes)
}

// Save reads at most maxBytes from r, checks the content is a supported image
// and writes it. It returns the file name and its public URL.
func (s *AvatarStore) Save(profileID string, r io.Reader) (name, publicURL string, err error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("read avatar: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", "", customerrors.ErrAvatarTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", customerrors.ErrUnsupportedAvatar, contentType)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create avatar dir: %w", err)
	}

	name = fmt.Sprintf("%s-%s.%s", profileID, uuid.NewString(), ext)
	if err := afero.WriteReader(s.fs, filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return "", "", fmt.Errorf("write avatar: %w", err)
	}
	return name, s.baseURL + "/" + path.Clean(name), nil
}

// Remove deletes a previously saved avatar. A missing file is not an error.
func (s *AvatarStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := s.fs.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove avatar: %w", err)
	}
	return nil
}

// NameFromURL returns the stored file name when url points into this store.
func (s *AvatarStore) NameFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// FileSystem exposes the avatar directory for static serving.
func (s *AvatarStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.dir)
}
