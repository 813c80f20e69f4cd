package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive stores device snapshots as JSON objects in a bucket, one object
// per registration run.
type Archive struct {
	client Client
	bucket string
	region string
	log    *zap.Logger
}

// Entry describes one archived snapshot object.
type Entry struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// New creates an Archive on top of a storage client.
func New(client Client, cfg Config, log *zap.Logger) *Archive {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "snapshots"
	}
	return &Archive{client: client, bucket: bucket, region: cfg.Region, log: log}
}

// Store uploads the snapshot payload for a run and returns the object name.
// The bucket is created on first use.
func (a *Archive) Store(ctx context.Context, device, runID string, payload []byte) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
		a.log.Info("created snapshot bucket", zap.String("bucket", a.bucket))
	}

	name := fmt.Sprintf("%s/%s.json", device, runID)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}

	a.log.Debug("archived snapshot",
		zap.String("object", name), zap.Int("bytes", len(payload)))
	return name, nil
}

// List returns the archived snapshots for a device, or every archived
// snapshot when device is empty.
func (a *Archive) List(ctx context.Context, device string) ([]Entry, error) {
	prefix := ""
	if device != "" {
		prefix = device + "/"
	}

	var entries []Entry
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		entries = append(entries, Entry{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return entries, nil
}
