// Package media stores uploaded assets (project images, artwork scans,
// library covers) behind a small S3-like interface. Content records keep
// only the resulting URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"time"
)

// Driver identifies a concrete media storage backend.
type Driver string

const (
	// DriverFilesystem stores assets under a local directory (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 targets an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps assets in process memory (tests).
	DriverMemory Driver = "memory"
)

// PutOptions carries optional parameters for Put.
type PutOptions struct {
	ContentType string            // inferred from the key extension when empty
	Metadata    map[string]string // small, flat key-value user metadata
}

// SignedURLOptions configures PresignURL.
type SignedURLOptions struct {
	Method string        // GET only
	Expiry time.Duration // default 15m
}

// Info describes a stored asset.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	URL          string            `json:"url,omitempty"`
}

// Store is the asset storage abstraction. Put is create-only: uploading to
// an existing key is an error so published URLs never change content.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = errors.New("media: unsupported operation")

// Options selects and configures a media store.
type Options struct {
	Driver Driver // default fs
	FSRoot string // fs driver root, default ./mediadata
	S3     S3Config
}

// Open builds the configured media store.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(opts.FSRoot)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", driver)
	}
}

// contentTypeFor falls back to the key extension when the caller did not
// supply an explicit content type.
func contentTypeFor(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return mime.TypeByExtension(path.Ext(key))
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
