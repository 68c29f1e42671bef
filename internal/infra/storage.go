package infra

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadsRoute is the URL prefix the router serves UPLOAD_DIR under.
const UploadsRoute = "/uploads"

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".svg": true,
}

// ErrUnsupportedFile is returned by Save for non-image uploads.
var ErrUnsupportedFile = fmt.Errorf("storage: unsupported file type")

// LocalStorage keeps uploaded images on disk and addresses them by public URL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Save copies the uploaded file under a random name and returns its public URL.
func (s *LocalStorage) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", ErrUnsupportedFile
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return s.baseURL + path.Join(UploadsRoute, name), nil
}

// Remove deletes the file behind a URL returned by Save. URLs that do not
// point into the upload directory and files already gone are ignored.
func (s *LocalStorage) Remove(url string) error {
	prefix := s.baseURL + UploadsRoute + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}
