package storage

import (
	"fmt"
	"os"

	"github.com/Skryldev/gdimage/config"
	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// NewAdapter builds the adapter cfg.Storage selects. client is only used for
// S3 and may be nil otherwise.
func NewAdapter(cfg config.Config, client S3Client) (core.StorageAdapter, error) {
	switch cfg.Storage {
	case config.StorageLocal:
		return NewLocal(cfg.Local.RootDir, os.FileMode(cfg.Local.Permissions))
	case config.StorageS3:
		return NewS3(client, cfg.S3.Bucket)
	}
	return nil, apperrors.New(apperrors.CategoryConfig, "storage.adapter",
		fmt.Errorf("%w: no storage backend %q", apperrors.ErrStorageUnavailable, cfg.Storage))
}
