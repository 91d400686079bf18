package retrieval

import (
	"context"
	"path/filepath"

	"reschool-widgets/db"
)

// Source is one place a snapshot document may be found.
type Source interface {
	Name() string
	// TryRead returns the raw document stored under key. A missing
	// document is reported as db.ErrNotFound.
	TryRead(ctx context.Context, key string) ([]byte, error)
}

// StoreSource reads from a shared key-value store.
type StoreSource struct {
	Label string
	Store db.Store
}

func (s StoreSource) Name() string { return s.Label }

func (s StoreSource) TryRead(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// FileSource reads <Dir>/<key>.json.
type FileSource struct {
	Label string
	Dir   string
}

func (f FileSource) Name() string { return f.Label }

func (f FileSource) TryRead(ctx context.Context, key string) ([]byte, error) {
	v, err := db.NewFileStore(f.Dir).Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// Directory layout shared with the writer.
const (
	SharedDataSubdir = "Library/WidgetData"
	AppSupportSubdir = "ReSchoolWidgets"
	sharedStoreLabel = "shared-store"
	groupFileLabel   = "group-file"
	appSupportLabel  = "app-support-file"
)

// SharedDataDir returns the snapshot directory inside a group container.
func SharedDataDir(groupDir string) string {
	return filepath.Join(groupDir, filepath.FromSlash(SharedDataSubdir))
}

// AppSupportDataDir returns the private fallback snapshot directory.
func AppSupportDataDir(appSupportDir string) string {
	return filepath.Join(appSupportDir, AppSupportSubdir)
}
