package repository

import "io/fs"

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithDirMode sets the mode used when creating partition directories.
func WithDirMode(mode fs.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.dirMode = mode
		}
	}
}

// WithFileMode sets the mode applied to record files.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}
