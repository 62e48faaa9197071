package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store persists photo assets and resolves their paths. Save returns a
// store-relative path (subdir/filename) suitable for persistence in the
// database; GetFullPath turns it back into an absolute filesystem path.
type Store interface {
	Save(assetType AssetType, filename string, data io.Reader) (string, error)
	GetFullPath(relativePath string) (string, error)
	Delete(relativePath string) error
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath  string
	subDirMap map[AssetType]string
}

// NewLocalStorage creates a new local filesystem store rooted at basePath,
// with one subdirectory per asset type.
func NewLocalStorage(basePath string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	for assetType, subDir := range subDirs {
		fullPath := filepath.Join(absBasePath, subDir)
		if !strings.HasPrefix(filepath.Clean(fullPath), absBasePath) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		if err := os.MkdirAll(fullPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for asset type '%s': %w", assetType, err)
		}
	}

	log.Printf("media.store: initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath, subDirMap: subDirs}, nil
}

// Save writes data under the asset type's subdirectory and returns the
// store-relative path.
func (ls *LocalStorage) Save(assetType AssetType, filename string, data io.Reader) (string, error) {
	subDir, ok := ls.subDirMap[assetType]
	if !ok {
		return "", fmt.Errorf("asset type '%s' is not configured", assetType)
	}
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid asset filename '%s'", filename)
	}

	fullPath := filepath.Join(ls.basePath, subDir, filename)
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file %s: %w", fullPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write asset file %s: %w", fullPath, err)
	}

	return filepath.ToSlash(filepath.Join(subDir, filename)), nil
}

// GetFullPath returns the absolute filesystem path for a store-relative path
func (ls *LocalStorage) GetFullPath(relativePath string) (string, error) {
	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(relativePath))
	if !strings.HasPrefix(filepath.Clean(fullPath), ls.basePath) {
		return "", fmt.Errorf("relative path '%s' resolves outside storage base", relativePath)
	}
	return fullPath, nil
}

// Delete removes an asset
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.GetFullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset %s: %w", relativePath, err)
	}
	return nil
}
