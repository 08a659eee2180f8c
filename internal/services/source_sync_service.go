package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SourceSyncService pulls the latest picking-notes export out of the bucket
// the upstream system drops it into and installs it in the data directory.
type SourceSyncService interface {
	SyncPickingNotes(ctx context.Context) error
}

type minioSourceSync struct {
	client   *minio.Client
	bucket   string
	object   string
	destPath string
}

func NewSourceSyncService(endpoint, accessKey, secretKey string, useSSL bool, bucket, object, destPath string) (SourceSyncService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioSourceSync{
		client:   client,
		bucket:   bucket,
		object:   object,
		destPath: destPath,
	}, nil
}

// SyncPickingNotes downloads the export to a temp file and renames it into
// place. The rename keeps concurrent lookups from ever reading a partial
// file.
func (s *minioSourceSync) SyncPickingNotes(ctx context.Context) error {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	dir := filepath.Dir(s.destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".picking-notes-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, obj)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s/%s: %w", s.bucket, s.object, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), s.destPath); err != nil {
		return err
	}

	log.Printf("Synced picking notes (%d bytes) to %s", written, s.destPath)
	return nil
}
