package storage

import (
	"io"
	"os"
	"time"

	"huddle/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

type OssStorage struct {
	Bucket *oss.Bucket
}

// NewOssStorageFromEnv OSS_ENDPOINT, OSS_ACCESS_KEY, OSS_SECRET_KEY, OSS_BUCKET
func NewOssStorageFromEnv() (*OssStorage, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucketName := os.Getenv("OSS_BUCKET")
	if bucketName == "" {
		bucketName = "huddle"
	}

	cli, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return &OssStorage{Bucket: bucket}, nil
}

func (o *OssStorage) Upload(key string, r io.Reader, s *session.Session) error {
	span := startObjectSpan("put-object", key, s)
	err := o.Bucket.PutObject(key, r)
	finishObjectSpan(span, err)
	return err
}

func (o *OssStorage) Download(key string, s *session.Session) (io.ReadCloser, error) {
	span := startObjectSpan("get-object", key, s)
	r, err := o.Bucket.GetObject(key)
	finishObjectSpan(span, err)
	return r, err
}

func (o *OssStorage) Delete(key string, s *session.Session) error {
	span := startObjectSpan("delete-object", key, s)
	err := o.Bucket.DeleteObject(key)
	finishObjectSpan(span, err)
	return err
}

func (o *OssStorage) Exists(key string, s *session.Session) (bool, error) {
	span := startObjectSpan("head-object", key, s)
	found, err := o.Bucket.IsObjectExist(key)
	finishObjectSpan(span, err)
	return found, err
}

func (o *OssStorage) SignedURL(key string, ttl time.Duration, s *session.Session) (string, error) {
	span := startObjectSpan("sign-url", key, s)
	url, err := o.Bucket.SignURL(key, oss.HTTPGet, int64(ttl/time.Second))
	finishObjectSpan(span, err)
	return url, err
}

func startObjectSpan(operation, key string, s *session.Session) opentracing.Span {
	if s == nil || s.Context == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(s.Context)
	if parentSpan == nil {
		return nil
	}
	span := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	span.SetTag("object-key", key)
	return span
}

func finishObjectSpan(span opentracing.Span, err error) {
	if span == nil {
		return
	}
	ext.Error.Set(span, err != nil)
	span.Finish()
}
