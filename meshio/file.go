package meshio

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/hupe1980/meshkit/mesh"
)

const fileBufferSize = 256 * 1024

// SaveToFile writes m to filename atomically: the data goes to a temporary
// file in the same directory, which is synced and renamed over filename.
func SaveToFile(filename string, m mesh.Mesh, optFns ...Option) (err error) {
	o := applyOptions(optFns)
	defer func() { o.logger.LogSave(context.Background(), filename, err) }()

	dir := filepath.Dir(filename)
	f, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		if tmpName != "" {
			_ = f.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		return err
	}

	buf := bufio.NewWriterSize(f, fileBufferSize)
	if err := Write(buf, m, optFns...); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile reads a mesh written by SaveToFile or Write.
func LoadFromFile(filename string, optFns ...Option) (m mesh.Mesh, err error) {
	o := applyOptions(optFns)
	defer func() { o.logger.LogLoad(context.Background(), filename, err) }()

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(bufio.NewReaderSize(f, fileBufferSize), optFns...)
}
