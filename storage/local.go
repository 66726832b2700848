package storage

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"huddle/bizerror"
	"huddle/session"
)

type LocalStorage struct {
	Root string
}

// NewLocalStorageFromEnv FILE_STORAGE_DIR
func NewLocalStorageFromEnv() (*LocalStorage, error) {
	root := os.ExpandEnv(os.Getenv("FILE_STORAGE_DIR"))
	if root == "" {
		root = "files"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{Root: root}, nil
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.Root, filepath.FromSlash(key))
}

func (l *LocalStorage) Upload(key string, r io.Reader, s *session.Session) error {
	path := l.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (l *LocalStorage) Download(key string, s *session.Session) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if os.IsNotExist(err) {
		return nil, bizerror.ErrNotFound
	}
	return f, err
}

func (l *LocalStorage) Delete(key string, s *session.Session) error {
	err := os.Remove(l.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *LocalStorage) Exists(key string, s *session.Session) (bool, error) {
	_, err := os.Stat(l.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *LocalStorage) SignedURL(key string, ttl time.Duration, s *session.Session) (string, error) {
	return "", bizerror.ErrSignedURLUnsupported
}
