package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/chirag847/kisaaan/pkg/config"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/google/uuid"
)

const grainsSubdir = "grains"

// Storage persists uploaded grain images on the local filesystem and hands
// back the public path they are served under.
type Storage struct {
	dir      string
	maxBytes int64
}

// NewStorage builds a storage rooted at the configured upload directory.
func NewStorage(cfg config.UploadsConfig) (*Storage, error) {
	dir := filepath.Join(cfg.Dir, grainsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{
		dir:      dir,
		maxBytes: cfg.MaxUploadBytes(),
	}, nil
}

// SavedImage describes a stored upload.
type SavedImage struct {
	// Path is the public URL path the image is served under.
	Path string
	// DiskPath is the absolute location of the stored file.
	DiskPath string
}

// SaveGrainImage validates and persists a single multipart upload.
func (s *Storage) SaveGrainImage(header *multipart.FileHeader) (*SavedImage, error) {
	if header.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("image %q exceeds the %d byte limit", header.Filename, s.maxBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload")
	}
	defer file.Close()

	ext, err := SniffImageExt(file)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload")
	}

	name := fmt.Sprintf("grain-%s%s", uuid.NewString(), ext)
	diskPath := filepath.Join(s.dir, name)

	dst, err := os.Create(diskPath)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create image file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1)); err != nil {
		os.Remove(diskPath)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write image file")
	}

	return &SavedImage{
		Path:     "/uploads/" + grainsSubdir + "/" + name,
		DiskPath: diskPath,
	}, nil
}

// RemoveByPublicPath deletes the stored file behind a public image path.
// Missing files are ignored so delete remains idempotent.
func (s *Storage) RemoveByPublicPath(publicPath string) error {
	name := filepath.Base(publicPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
