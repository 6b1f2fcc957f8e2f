package media

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lysyi3m/autonews/app/database"
	"github.com/lysyi3m/autonews/app/images"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps featured images on disk under dir and registers them in the
// media table. The returned media id is the post's featured image reference.
type Store struct {
	dir  string
	repo database.MediaRepository
}

func NewStore(dir string, repo database.MediaRepository) *Store {
	return &Store{dir: dir, repo: repo}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes a validated image and records it.
func (s *Store) Save(ctx context.Context, img *images.Image) (int64, error) {
	path, err := s.write(img.Data, img.MimeType)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateMedia(ctx, database.Media{
		Path:      path,
		SourceURL: img.SourceURL,
		MimeType:  img.MimeType,
		Width:     img.Width,
		Height:    img.Height,
	})
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to record media: %w", err)
	}

	slog.Debug("Media stored", "id", id, "path", path, "source", img.SourceURL)

	return id, nil
}

// SaveFile copies a local image, such as a generated thumbnail, into the
// media directory. The source file is left in place.
func (s *Store) SaveFile(ctx context.Context, srcPath string) (int64, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read image file: %w", err)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open image file: %w", err)
	}
	config, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to decode image file: %w", err)
	}

	return s.Save(ctx, &images.Image{
		Data:     data,
		MimeType: "image/" + format,
		Width:    config.Width,
		Height:   config.Height,
	})
}

func (s *Store) write(data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	ext, ok := extensions[strings.ToLower(mimeType)]
	if !ok {
		ext = ".bin"
	}

	path := filepath.Join(s.dir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return path, nil
}
