package fileio

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OSFile provides a storage based on Go's standard "os" package for filesystem support.
type OSFile struct{}

// NewOSFile creates a new OSFile.
func NewOSFile() *OSFile {
	return &OSFile{}
}

// MkdirAll creates path and any missing parents.
func (*OSFile) MkdirAll(path string, perm os.FileMode) error {
	return errors.WithStack(os.MkdirAll(path, perm))
}

// ReadFile reads the whole content of file name.
func (*OSFile) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// WriteFile replaces the content of file name with data.
// The data is first written to a temporary file in the same directory which is then
// renamed over name, so that a failed write never leaves a truncated cassette behind.
func (*OSFile) WriteFile(name string, data []byte, perm os.FileMode) error {
	tmpName := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmpName, data, perm); err != nil {
		return errors.WithStack(err)
	}

	if err := os.Rename(tmpName, name); err != nil {
		_ = os.Remove(tmpName)
		return errors.WithStack(err)
	}

	return nil
}

// NotExist returns true when file name does not exist.
func (*OSFile) NotExist(name string) (bool, error) {
	_, err := os.Stat(name)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}

	return false, nil
}
