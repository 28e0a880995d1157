package storage

import (
	"io"
	"time"
)

// FileStore keeps user file content encrypted at rest. Cleartext only exists
// as transient copies handed out by DecryptToTemp.
type FileStore interface {
	// Save encrypts the content read from r under a key derived from the
	// owner's private key and returns the number of cleartext bytes stored.
	Save(fileID, privateKey string, r io.Reader) (int64, error)

	// DecryptToTemp writes a cleartext copy of the file into the temp
	// directory. The caller must invoke cleanup on every path.
	DecryptToTemp(fileID, privateKey string) (path string, cleanup func(), err error)

	// Delete removes the encrypted content. Missing files are not an error.
	Delete(fileID string) error

	// PurgeTransient removes cleartext copies older than maxAge and reports
	// how many were removed.
	PurgeTransient(maxAge time.Duration) (int, error)
}
