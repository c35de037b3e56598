package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores objects as files under a root directory and serves them from
// a configured public base URL.
type Disk struct {
	Root    string
	BaseURL string
}

func NewDisk(root, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Disk{Root: root, BaseURL: baseURL}, nil
}

func (d *Disk) Upload(_ context.Context, key string, data []byte, overwrite bool) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err = os.Stat(path); err == nil {
			return fmt.Errorf("object %q already exists", key)
		}
	}
	if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Disk) PublicURL(key string) string {
	return strings.TrimSuffix(d.BaseURL, "/") + "/" + key
}

// path resolves a key inside the root, refusing traversal outside it.
func (d *Disk) path(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(d.Root, cleaned), nil
}
