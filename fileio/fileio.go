// Package fileio provides the file systems cassettes are stored on.
package fileio

import "os"

// FileIO is the file system abstraction used by cassette storage.
type FileIO interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	NotExist(name string) (bool, error)
}
