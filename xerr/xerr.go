// Package xerr declares the sentinel error kinds shared across the xdvdfs
// read and write engines. Callers compare against these with errors.Is even
// after a value has been wrapped with additional context via fmt.Errorf.
package xerr

import "errors"

var (
	// ErrInvalidVolume means the volume descriptor failed magic validation
	// at every offset that was probed.
	ErrInvalidVolume = errors.New("xdvdfs: invalid volume")

	// ErrDeserializationFailed means an on-disc structure did not parse,
	// independent of the volume magic (e.g. a malformed dirent).
	ErrDeserializationFailed = errors.New("xdvdfs: deserialization failed")

	// ErrDoesNotExist means a named dirent was not found in a directory
	// table during a tree search.
	ErrDoesNotExist = errors.New("xdvdfs: dirent does not exist")

	// ErrNoDirent means a path resolved to the root, which has no dirent
	// of its own.
	ErrNoDirent = errors.New("xdvdfs: no dirent for root path")

	// ErrIsNotDirectory means a non-terminal path segment named a file.
	ErrIsNotDirectory = errors.New("xdvdfs: not a directory")

	// ErrDirectoryEmpty means an operation required at least one entry in
	// a directory table that has none.
	ErrDirectoryEmpty = errors.New("xdvdfs: directory is empty")

	// ErrSizeOutOfBounds means an access fell beyond the bounds of a
	// DiskRegion.
	ErrSizeOutOfBounds = errors.New("xdvdfs: size out of bounds")

	// ErrNameTooLong means an encoded file name exceeded 255 bytes.
	ErrNameTooLong = errors.New("xdvdfs: name too long")

	// ErrNameEncoding means a file name contains a code point that cannot
	// be represented in Windows-1252.
	ErrNameEncoding = errors.New("xdvdfs: name not representable in windows-1252")
)
