package gallery

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nfnt/resize"
)

// ThumbnailSize is the bounding box for derived thumbnails. Images are
// scaled to fit within it, never upscaled.
const ThumbnailSize = 200

var (
	ErrAdminRequired = errors.New("admin access required")
	ErrNoFile        = errors.New("no file selected")
	ErrInvalidType   = errors.New("invalid file type")
	ErrNotFound      = errors.New("file not found")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Manager owns the originals and thumbnails directories and keeps the two
// consistent across uploads and deletes.
type Manager struct {
	uploadDir    string
	thumbnailDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-filename, serializes same-name writes
}

// NewManager creates both storage directories if needed.
func NewManager(uploadDir, thumbnailDir string) (*Manager, error) {
	for _, dir := range []string{uploadDir, thumbnailDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Manager{
		uploadDir:    uploadDir,
		thumbnailDir: thumbnailDir,
		locks:        make(map[string]*sync.Mutex),
	}, nil
}

func (m *Manager) lockName(name string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[name]
	if !ok {
		l = &sync.Mutex{}
		m.locks[name] = l
	}
	return l
}

// AllowedFile reports whether the filename carries an allowed image
// extension. The match is case-insensitive.
func AllowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListAssets enumerates stored originals with an allowed extension, in
// directory order.
func (m *Manager) ListAssets() ([]string, error) {
	entries, err := os.ReadDir(m.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && AllowedFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// SaveUpload validates and stores an uploaded original, overwriting any
// existing file with the same sanitized name. It returns the stored name;
// thumbnail derivation is the caller's next step (see GenerateThumbnail).
func (m *Manager) SaveUpload(name string, r io.Reader, isAdmin bool) (string, error) {
	if !isAdmin {
		return "", ErrAdminRequired
	}
	if name == "" {
		return "", ErrNoFile
	}

	stored := SanitizeFilename(name)
	if stored == "" || !AllowedFile(stored) {
		return "", ErrInvalidType
	}

	lock := m.lockName(stored)
	lock.Lock()
	defer lock.Unlock()

	dst, err := os.Create(filepath.Join(m.uploadDir, stored))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return stored, nil
}

// GenerateThumbnail derives the thumbnail for a stored original. The caller
// decides what to do with a failure; upload handlers log it and keep the
// upload successful.
func (m *Manager) GenerateThumbnail(name string) error {
	stored := SanitizeFilename(name)
	if stored == "" {
		return ErrNotFound
	}

	lock := m.lockName(stored)
	lock.Lock()
	defer lock.Unlock()

	file, err := os.Open(filepath.Join(m.uploadDir, stored))
	if err != nil {
		return fmt.Errorf("failed to open original: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := resize.Thumbnail(ThumbnailSize, ThumbnailSize, img, resize.Lanczos3)

	out, err := os.Create(filepath.Join(m.thumbnailDir, stored))
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(stored)) {
	case ".png":
		err = png.Encode(out, thumbnail)
	case ".gif":
		err = gif.Encode(out, thumbnail, nil)
	default:
		err = jpeg.Encode(out, thumbnail, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}

// HasThumbnail reports whether a thumbnail already exists for the name.
func (m *Manager) HasThumbnail(name string) bool {
	stored := SanitizeFilename(name)
	if stored == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(m.thumbnailDir, stored))
	return err == nil
}

// DeleteAsset removes an original and, if present, its thumbnail. A missing
// thumbnail is not an error; a missing original is ErrNotFound.
func (m *Manager) DeleteAsset(name string, isAdmin bool) error {
	if !isAdmin {
		return ErrAdminRequired
	}

	stored := SanitizeFilename(name)
	if stored == "" {
		return ErrNotFound
	}

	lock := m.lockName(stored)
	lock.Lock()
	defer lock.Unlock()

	originalPath := filepath.Join(m.uploadDir, stored)
	if _, err := os.Stat(originalPath); err != nil {
		return ErrNotFound
	}

	if err := os.Remove(originalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	thumbnailPath := filepath.Join(m.thumbnailDir, stored)
	if err := os.Remove(thumbnailPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}

// OriginalPath resolves a request filename to a path inside the uploads
// directory, or ErrNotFound if the name sanitizes away or escapes it.
func (m *Manager) OriginalPath(name string) (string, error) {
	return m.resolve(m.uploadDir, name)
}

// ThumbnailPath resolves a request filename to a path inside the thumbnails
// directory.
func (m *Manager) ThumbnailPath(name string) (string, error) {
	return m.resolve(m.thumbnailDir, name)
}

func (m *Manager) resolve(dir, name string) (string, error) {
	stored := SanitizeFilename(name)
	if stored == "" {
		return "", ErrNotFound
	}

	path := filepath.Join(dir, stored)
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", ErrNotFound
	}
	return path, nil
}
