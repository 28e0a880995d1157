package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docs-approval-backend/internal/logger"
)

const transientPrefix = "transient-"

// LocalStore implements FileStore on the local filesystem
type LocalStore struct {
	dataDir string
	tempDir string
	now     func() time.Time
}

// NewLocalStore creates the data and temp directories when missing
func NewLocalStore(cfg Config) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.TempDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &LocalStore{dataDir: cfg.DataDir, tempDir: cfg.TempDir, now: time.Now}, nil
}

func (s *LocalStore) path(fileID string) (string, error) {
	if fileID == "" || strings.ContainsAny(fileID, `/\`) || fileID == "." || fileID == ".." {
		return "", fmt.Errorf("invalid file id %q", fileID)
	}
	return filepath.Join(s.dataDir, fileID), nil
}

func (s *LocalStore) Save(fileID, privateKey string, r io.Reader) (int64, error) {
	fullPath, err := s.path(fileID)
	if err != nil {
		return 0, err
	}
	key, err := deriveFileKey(privateKey, fileID)
	if err != nil {
		return 0, err
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read content: %w", err)
	}
	ciphertext, err := seal(plaintext, key)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt file: %w", err)
	}

	if err := os.WriteFile(fullPath, ciphertext, 0600); err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	return int64(len(plaintext)), nil
}

func (s *LocalStore) DecryptToTemp(fileID, privateKey string) (string, func(), error) {
	fullPath, err := s.path(fileID)
	if err != nil {
		return "", nil, err
	}
	key, err := deriveFileKey(privateKey, fileID)
	if err != nil {
		return "", nil, err
	}

	ciphertext, err := os.ReadFile(fullPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read encrypted file: %w", err)
	}
	plaintext, err := open(ciphertext, key)
	if err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp(s.tempDir, transientPrefix+uuid.NewString()+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create transient file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to remove transient file", "path", tmpPath, "error", err)
		}
	}

	if _, err := tmp.Write(plaintext); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write transient file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close transient file: %w", err)
	}
	return tmpPath, cleanup, nil
}

func (s *LocalStore) Delete(fileID string) error {
	fullPath, err := s.path(fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) PurgeTransient(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list temp directory: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), transientPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.tempDir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to purge transient file", "name", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
