package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// Reserve returns a fresh key and the path a writer should create.
// Nothing is written until the caller writes to Path.
func (s *LocalStorage) Reserve(ctx context.Context, filename string) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.generateKey(filename)
	return &Reservation{
		Key:  key,
		Path: filepath.Join(s.baseDir, key),
	}, nil
}

func (s *LocalStorage) GetFile(ctx context.Context, key string) (io.ReadCloser, string, error) {
	filePath, err := s.pathFor(key)
	if err != nil {
		return nil, "", err
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Error("file not found in local storage", "key", key, "path", filePath)
			return nil, "", fmt.Errorf("file not found: %s (path: %s)", key, filePath)
		}
		return nil, "", fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, "", fmt.Errorf("file is empty: %s", key)
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(filePath); err == nil {
		contentType = mt.String()
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	slog.Debug("file opened from local storage",
		"key", key,
		"path", filePath,
		"size", fileInfo.Size(),
		"content_type", contentType)

	return file, contentType, nil
}

// DeleteFile removes the file behind key. A missing file is not an error.
func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	filePath, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	slog.Debug("file deleted from local storage", "key", key, "path", filePath)
	return nil
}

// Writable reports whether files can be created in the base directory.
func (s *LocalStorage) Writable() error {
	f, err := os.CreateTemp(s.baseDir, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func (s *LocalStorage) pathFor(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

func (s *LocalStorage) generateKey(filename string) string {
	ext := filepath.Ext(filename)
	basename := strings.TrimSuffix(filepath.Base(filename), ext)

	safeBasename := strings.ReplaceAll(basename, " ", "_")
	safeBasename = strings.ReplaceAll(safeBasename, "..", "_")
	if safeBasename == "" || safeBasename == "." {
		safeBasename = "file"
	}

	return fmt.Sprintf("%s_%s%s", safeBasename, uuid.New().String(), ext)
}
