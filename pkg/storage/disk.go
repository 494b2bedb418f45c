// Package storage abstracts where product images live.
//
// Two drivers are available:
//   - "local"  — local filesystem (default; served under /storage)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once in internal/server, then:
//
//	storage.Put("products/dome-camera-4mp/front.jpg", data)
//	url := storage.URL("products/dome-camera-4mp/front.jpg")
package storage

import "io"

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// URL returns the public URL for path. This is what gets stored on
	// product_images rows and returned on the catalog wire.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// Files lists the files directly inside directory.
	Files(directory string) ([]string, error)

	// DeleteDirectory removes directory and all its contents. Used when a
	// product is deleted to drop its whole image folder.
	DeleteDirectory(path string) error
}
