// Package blobstore abstracts where arena snapshots are kept.
//
// Snapshots are written and read as whole, sequential blobs, so the
// interface is deliberately small. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic writes
//   - minio.Store: MinIO and other S3-compatible object storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (io.ReadCloser, error)  // Open for reading
//	    Put(ctx, name, r) error                 // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
