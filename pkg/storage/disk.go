// Package storage abstracts file storage behind a Disk interface with
// local-filesystem and S3 drivers. Product images go through the
// default disk: "local" in development, "s3" behind a CDN in
// production, chosen with STORAGE_DISK.
//
//	storage.Connect()
//
//	storage.PutStream("products/42/main.jpg", file)
//	url := storage.URL("products/42/main.jpg")
//
//	storage.Use("s3").Put("exports/orders.csv", data)
package storage

import (
	"io"
	"time"
)

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error
	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the whole file at path.
	Get(path string) ([]byte, error)
	// GetStream returns a ReadCloser the caller must close.
	GetStream(path string) (io.ReadCloser, error)

	Exists(path string) bool
	Missing(path string) bool
	Size(path string) (int64, error)
	LastModified(path string) (time.Time, error)

	// URL returns the public address clients fetch the file from.
	URL(path string) string

	// Delete removes a file; a missing file is not an error.
	Delete(path string) error
	Copy(src, dst string) error
	Move(src, dst string) error

	// Files lists direct children; AllFiles recurses.
	Files(directory string) ([]string, error)
	AllFiles(directory string) ([]string, error)
	Directories(directory string) ([]string, error)
	MakeDirectory(path string) error
	DeleteDirectory(path string) error
}
