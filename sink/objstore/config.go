// Package objstore archives evicted cache values to S3-compatible object storage.
package objstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// DefaultTimeout bounds a single archive upload when Config.Timeout is not set.
const DefaultTimeout = 10 * time.Second

// Config holds archive sink configuration.
type Config[K comparable, V any] struct {
	// Endpoint is the S3/MinIO server address (e.g., "localhost:9000")
	Endpoint string

	// Bucket receives the archived objects (required)
	Bucket string

	// AccessKey and SecretKey authenticate against Endpoint
	AccessKey string
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Prefix is prepended to every object name (for namespacing)
	Prefix string

	// Client is an optional pre-configured MinIO client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored
	Client *minio.Client

	// ObjectName maps a cache key to an object name below Prefix.
	// Default: fmt.Sprint(key)
	ObjectName func(K) string

	// Encode serializes a value. Default: []byte and string as-is,
	// encoding.BinaryMarshaler, then JSON.
	Encode func(V) ([]byte, error)

	// ContentType of archived objects. Default: "application/octet-stream"
	ContentType string

	// Timeout bounds each upload. Default: DefaultTimeout
	Timeout time.Duration
}

// validate checks the configuration.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided.
func (c *Config[K, V]) validate() error {
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return errors.New("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required when client is not provided")
	}
	return nil
}

// withDefaults fills unset optional fields.
func (c Config[K, V]) withDefaults() Config[K, V] {
	if c.ObjectName == nil {
		c.ObjectName = func(k K) string { return fmt.Sprint(k) }
	}
	if c.Encode == nil {
		c.Encode = encodeDefault[V]
	}
	if c.ContentType == "" {
		c.ContentType = "application/octet-stream"
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
