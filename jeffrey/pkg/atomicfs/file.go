package atomicfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const tmpSuffix = ".tmp-"

// File is written to a temporary file next to its destination and renamed
// over it on Close. Readers of the destination never see a partial document.
type File struct {
	tmp  *os.File
	dst  string
	sync bool
}

type FileOption func(f *File)

// WithSync flushes the temporary file to disk before the rename.
func WithSync() FileOption {
	return func(f *File) {
		f.sync = true
	}
}

func Create(path string, opts ...FileOption) (*File, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir, base := filepath.Split(path)

	tmp, err := os.CreateTemp(dir, base+tmpSuffix)
	if err != nil {
		return nil, err
	}

	f := &File{tmp: tmp, dst: path}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *File) Write(data []byte) (int, error) {
	return f.tmp.Write(data)
}

// Discard removes the temporary file. It is a no-op after Close.
func (f *File) Discard() error {
	if f.tmp == nil {
		return nil
	}
	tmp := f.tmp
	f.tmp = nil

	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Remove(tmp.Name())
}

// Close commits the written data to the destination path.
func (f *File) Close() error {
	if f.tmp == nil {
		return os.ErrClosed
	}
	tmp := f.tmp
	f.tmp = nil

	if f.sync {
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.dst)
}

// WriteFile is the atomic version of os.WriteFile.
func WriteFile(path string, data []byte, opts ...FileOption) error {
	f, err := Create(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Discard()
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Close()
}

var _ io.WriteCloser = (*File)(nil)
