// Package media stores product images on local disk under the configured
// media root. References are relative paths like "products/<id>/<file>"
// served by the app's guarded /media/* route.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBadImageType = errors.New("unsupported image type")

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		root = abs
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("media: mkdir root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// SaveProductImage writes an uploaded file under products/<productID>/ and
// returns its relative reference. The filename is regenerated so client
// names never touch the filesystem.
func (s *Store) SaveProductImage(productID string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBadImageType
	}
	ref := filepath.ToSlash(filepath.Join("products", productID, uuid.NewString()+ext))
	full := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("media: mkdir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("media: create %s: %w", ref, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("media: write %s: %w", ref, err)
	}
	return ref, nil
}

// Remove deletes a single stored reference. Missing files are not errors;
// the record may predate the store or the file may already be gone.
func (s *Store) Remove(ref string) error {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("media: refusing path %q", ref)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveProductDir deletes every image stored for a product.
func (s *Store) RemoveProductDir(productID string) error {
	if productID == "" || strings.ContainsAny(productID, `/\.`) {
		return fmt.Errorf("media: refusing product id %q", productID)
	}
	return os.RemoveAll(filepath.Join(s.root, "products", productID))
}
