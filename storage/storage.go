package storage

import (
	"errors"
	"io"
	"os"
	"time"

	"huddle/session"
)

// BlobStorage abstracts the file backends. The access resolver gates every
// call before it reaches a backend.
type BlobStorage interface {
	Upload(key string, r io.Reader, s *session.Session) error
	Download(key string, s *session.Session) (io.ReadCloser, error)
	Delete(key string, s *session.Session) error
	Exists(key string, s *session.Session) (bool, error)
	SignedURL(key string, ttl time.Duration, s *session.Session) (string, error)
}

// ActiveStorage is constructed once per process and reused across requests;
// backends are stateless aside from configuration.
var ActiveStorage BlobStorage

// Bootstrap STORAGE_TYPE=local|oss
func Bootstrap() error {
	storageType := os.Getenv("STORAGE_TYPE")
	switch storageType {
	case "", "local":
		backend, err := NewLocalStorageFromEnv()
		if err != nil {
			return err
		}
		ActiveStorage = backend
	case "oss":
		backend, err := NewOssStorageFromEnv()
		if err != nil {
			return err
		}
		ActiveStorage = backend
	default:
		return errors.New("unknown storage type: " + storageType)
	}
	return nil
}
