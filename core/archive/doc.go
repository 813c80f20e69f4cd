// Package archive stores device snapshots in object storage.
//
// It wraps the MinIO Go client to provide a simplified interface for the few
// operations snapshot archiving needs: checking bucket existence, creating the
// bucket, uploading the snapshot JSON and listing what has been archived.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/archive/mocks).
//
// # Layout
//
// Objects are stored as <device>/<run-id>.json, so the archive doubles as a
// per-device history of what each registration run observed.
//
// # Usage
//
//	client, err := archive.NewClient(cfg.Archive)
//	a := archive.New(client, cfg.Archive, log)
//	name, err := a.Store(ctx, "srv01", runID, payload)
package archive
