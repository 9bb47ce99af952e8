package storage

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the configured disks. The local disk always exists;
// the s3 disk joins only when S3_BUCKET is set, and a broken S3 config
// degrades to local-only with a warning rather than failing boot.
func Connect() {
	defaultDisk = config.Get("STORAGE_DISK", "local")

	disks["local"] = newLocalDisk()

	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns a named disk ("local" or "s3"). Asking for a disk that
// was never configured is a programming error, hence the panic.
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom driver at boot, used by tests to swap
// in an in-memory disk.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

func defaultD() Disk { return Use(defaultDisk) }

// Package-level helpers proxy to the default disk so call sites read
// storage.PutStream(...) without caring which driver is live.

func Put(path string, content []byte) error          { return defaultD().Put(path, content) }
func PutStream(path string, r io.Reader) error       { return defaultD().PutStream(path, r) }
func Get(path string) ([]byte, error)                { return defaultD().Get(path) }
func GetStream(path string) (io.ReadCloser, error)   { return defaultD().GetStream(path) }
func Exists(path string) bool                        { return defaultD().Exists(path) }
func Missing(path string) bool                       { return defaultD().Missing(path) }
func Delete(path string) error                       { return defaultD().Delete(path) }
func URL(path string) string                         { return defaultD().URL(path) }
func Copy(src, dst string) error                     { return defaultD().Copy(src, dst) }
func Move(src, dst string) error                     { return defaultD().Move(src, dst) }
func Size(path string) (int64, error)                { return defaultD().Size(path) }
func LastModified(path string) (time.Time, error)    { return defaultD().LastModified(path) }
func Files(directory string) ([]string, error)       { return defaultD().Files(directory) }
func AllFiles(directory string) ([]string, error)    { return defaultD().AllFiles(directory) }
func Directories(directory string) ([]string, error) { return defaultD().Directories(directory) }
func MakeDirectory(path string) error                { return defaultD().MakeDirectory(path) }
func DeleteDirectory(path string) error              { return defaultD().DeleteDirectory(path) }
