package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"

	"scribe/internal/config"
	"scribe/internal/models"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "/tmp/scribe/media"
	DefaultImageMaxUploadSizeMB = 5
	// imageSubdir is where post images live below the upload directory.
	imageSubdir = "posts"
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

var decodedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageStore persists uploaded images. Validate returns the reference Store
// will use for the same input without touching the disk.
type ImageStore interface {
	Validate(ctx context.Context, in UploadImageInput) (string, error)
	Store(ctx context.Context, in UploadImageInput) (string, error)
}

type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Validate checks size and content of in and returns its reference,
// posts/<sha256>.<ext>, relative to the upload directory.
func (s *ImageService) Validate(_ context.Context, in UploadImageInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewFieldValidationError("image", "No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewFieldValidationError("image",
			fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	ext, ok := imageExtensions[detected]
	if !ok {
		return "", models.NewFieldValidationError("image", "Upload a valid image")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil || decodedFormats[format] != detected || cfg.Width == 0 || cfg.Height == 0 {
		return "", models.NewFieldValidationError("image", "Upload a valid image")
	}

	sum := sha256.Sum256(in.Content)
	return filepath.ToSlash(filepath.Join(imageSubdir, hex.EncodeToString(sum[:])+"."+ext)), nil
}

// Store validates in and writes it under its reference. Identical content
// maps to the same file.
func (s *ImageService) Store(ctx context.Context, in UploadImageInput) (string, error) {
	rel, err := s.Validate(ctx, in)
	if err != nil {
		return "", err
	}
	abs := s.Path(rel)
	if _, err := os.Stat(abs); err == nil {
		return rel, nil
	}
	if err := writeBytesToFile(abs, in.Content); err != nil {
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Path resolves a stored reference to its location on disk.
func (s *ImageService) Path(ref string) string {
	return filepath.Join(s.uploadDir, filepath.FromSlash(ref))
}

func writeBytesToFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize image: %w", err)
	}
	return nil
}
