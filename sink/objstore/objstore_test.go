package objstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/IvanBrykalov/arccache/arc"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	bucket, object string
	body           []byte
	opts           minio.PutObjectOptions
	hasDeadline    bool
}

type fakeUploader struct {
	uploads []upload
	err     error
}

func (f *fakeUploader) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(body)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	_, hasDeadline := ctx.Deadline()
	f.uploads = append(f.uploads, upload{bucket, object, body, opts, hasDeadline})
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, f.err
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config[string, []byte]
		wantErr string
	}{
		{"missing bucket", Config[string, []byte]{Endpoint: "x"}, "bucket is required"},
		{"missing endpoint", Config[string, []byte]{Bucket: "b"}, "endpoint is required"},
		{"missing access key", Config[string, []byte]{Bucket: "b", Endpoint: "e"}, "access key is required"},
		{"missing secret", Config[string, []byte]{Bucket: "b", Endpoint: "e", AccessKey: "a"}, "secret key is required"},
		{"negative timeout", Config[string, []byte]{Bucket: "b", Client: &minio.Client{}, Timeout: -time.Second}, "timeout"},
		{"client only", Config[string, []byte]{Bucket: "b", Client: &minio.Client{}}, ""},
		{"full", Config[string, []byte]{Bucket: "b", Endpoint: "e", AccessKey: "a", SecretKey: "s"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_BuildsClientWithoutDialing(t *testing.T) {
	t.Parallel()

	s, err := New[string, []byte](Config[string, []byte]{
		Endpoint:  "localhost:9000",
		Bucket:    "evicted",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	require.NotNil(t, s.client)

	_, err = New[string, []byte](Config[string, []byte]{})
	require.ErrorContains(t, err, "invalid config")
}

func TestSink_EvictUploadsValue(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{}
	s := newSink[int, string](up, Config[int, string]{Bucket: "arc", Prefix: "pages"})

	require.NoError(t, s.Evict(7, "payload", arc.Demoted))
	require.Len(t, up.uploads, 1)
	got := up.uploads[0]
	assert.Equal(t, "arc", got.bucket)
	assert.Equal(t, "pages/7", got.object)
	assert.Equal(t, []byte("payload"), got.body)
	assert.Equal(t, "application/octet-stream", got.opts.ContentType)
	assert.Equal(t, "demoted", got.opts.UserMetadata["Evict-Reason"])
	assert.True(t, got.hasDeadline, "uploads must be bounded by a timeout")
}

func TestSink_CustomEncodingAndNames(t *testing.T) {
	t.Parallel()

	type page struct {
		ID   int    `json:"id"`
		Body string `json:"body"`
	}
	up := &fakeUploader{}
	s := newSink[string, page](up, Config[string, page]{
		Bucket:      "arc",
		ObjectName:  func(k string) string { return k + ".json" },
		ContentType: "application/json",
	})

	require.NoError(t, s.Evict("p1", page{ID: 1, Body: "x"}, arc.Discarded))
	assert.Equal(t, "p1.json", up.uploads[0].object)
	assert.JSONEq(t, `{"id":1,"body":"x"}`, string(up.uploads[0].body))
	assert.Equal(t, "discarded", up.uploads[0].opts.UserMetadata["Evict-Reason"])
}

func TestSink_UploadErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	s := newSink[string, []byte](&fakeUploader{err: boom}, Config[string, []byte]{Bucket: "arc"})

	err := s.Evict("k", []byte("v"), arc.Demoted)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "arc/k")
}

func TestSink_EncodeErrorSkipsUpload(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{}
	s := newSink[string, int](up, Config[string, int]{
		Bucket: "arc",
		Encode: func(int) ([]byte, error) { return nil, errors.New("nope") },
	})
	require.ErrorContains(t, s.Evict("k", 1, arc.Demoted), "encode")
	assert.Empty(t, up.uploads)
}
