package objstore

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/IvanBrykalov/arccache/arc"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// uploader is the subset of *minio.Client the sink needs.
type uploader interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Sink writes each evicted value as one object: <Prefix>/<ObjectName(key)>.
// The eviction reason is stored as object metadata.
type Sink[K comparable, V any] struct {
	client uploader
	cfg    Config[K, V]
}

// New builds an archive sink. It does not contact the server.
func New[K comparable, V any](cfg Config[K, V]) (*Sink[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}
	return newSink[K, V](client, cfg), nil
}

func newSink[K comparable, V any](client uploader, cfg Config[K, V]) *Sink[K, V] {
	return &Sink[K, V]{client: client, cfg: cfg.withDefaults()}
}

// Evict uploads value under key's object name.
func (s *Sink[K, V]) Evict(key K, value V, reason arc.EvictReason) error {
	body, err := s.cfg.Encode(value)
	if err != nil {
		return fmt.Errorf("objstore: encode %v: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	name := s.objectName(key)
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, name, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{
			ContentType:  s.cfg.ContentType,
			UserMetadata: map[string]string{"Evict-Reason": reason.String()},
		})
	if err != nil {
		return fmt.Errorf("objstore: put %s/%s: %w", s.cfg.Bucket, name, err)
	}
	return nil
}

func (s *Sink[K, V]) objectName(key K) string {
	name := s.cfg.ObjectName(key)
	if s.cfg.Prefix == "" {
		return name
	}
	return path.Join(s.cfg.Prefix, name)
}

func encodeDefault[V any](v V) ([]byte, error) {
	switch x := any(v).(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case encoding.BinaryMarshaler:
		return x.MarshalBinary()
	default:
		return json.Marshal(v)
	}
}

var _ arc.Sink[string, []byte] = (*Sink[string, []byte])(nil)
