package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBackend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[params.Key] = data
	m.types[params.Key] = params.ContentType
	return &PutObjectResponse{Key: params.Key, ETag: "etag", Size: int64(len(data))}, nil
}

func (m *memBackend) DeleteObject(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return true, nil
}

func testConfig(t *testing.T) *S3Config {
	t.Helper()
	cfg := &S3Config{
		BucketName:    "talent",
		Region:        "us-east-1",
		AccessKey:     "key",
		SecretKey:     "secret",
		Endpoint:      "http://localhost:9000",
		MaxUploadSize: "1KB",
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestService(t *testing.T) (*BlobService, *memBackend) {
	backend := newMemBackend()
	svc := NewBlobServiceWithBackend(testConfig(t), backend)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, backend
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestS3Config_Validate(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, DefaultFolder, cfg.Folder)
	assert.Equal(t, int64(1000), cfg.MaxUploadBytes())

	bad := *cfg
	bad.MaxUploadSize = "lots"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.PublicURL = "cdn.example.com"
	assert.Error(t, bad.Validate())

	assert.Error(t, (&S3Config{Region: "r", AccessKey: "a", SecretKey: "s"}).Validate())
}

func TestS3Config_BaseURL(t *testing.T) {
	cfg := &S3Config{BucketName: "b", Region: "eu-west-1"}
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", cfg.baseURL())

	cfg.Endpoint = "http://minio:9000/"
	assert.Equal(t, "http://minio:9000/b", cfg.baseURL())

	cfg.PublicURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com", cfg.baseURL())
}

func TestUpload(t *testing.T) {
	svc, backend := newTestService(t)

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	res, err := svc.Upload(context.Background(), &UploadParams{
		Field:    "profileImage",
		FileName: "Me.PNG",
		Size:     int64(len(body)),
		Body:     bytes.NewReader(body),
	})
	require.NoError(t, err)

	assert.Equal(t, "gensquad_uploads/profileImage-1700000000000.png", res.Key)
	assert.Equal(t, "http://localhost:9000/talent/gensquad_uploads/profileImage-1700000000000.png", res.URL)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, int64(len(body)), res.Size)
	assert.Equal(t, body, backend.objects[res.Key])
	assert.Equal(t, "image/png", backend.types[res.Key])
}

func TestUpload_LargerThanSniffBuffer(t *testing.T) {
	svc, backend := newTestService(t)
	svc.config.maxUploadBytes = 10 * sniffLen

	body := []byte("%PDF-1.7\n" + strings.Repeat("x", 2*sniffLen))
	res, err := svc.Upload(context.Background(), &UploadParams{
		Folder:   "custom/",
		Field:    "resume",
		FileName: "cv.pdf",
		Size:     int64(len(body)),
		Body:     bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, "custom/resume-1700000000000.pdf", res.Key)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, body, backend.objects[res.Key])
}

func TestUpload_Rejections(t *testing.T) {
	svc, backend := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, &UploadParams{Field: "resume", FileName: "run.exe", Size: 10, Body: strings.NewReader("0123456789")})
	assert.ErrorIs(t, err, ErrFormatNotAllowed)

	_, err = svc.Upload(ctx, &UploadParams{Field: "resume", FileName: "cv.pdf", Size: 0, Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.Upload(ctx, &UploadParams{Field: "resume", FileName: "cv.pdf", Size: 2000, Body: strings.NewReader(strings.Repeat("x", 2000))})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "2.0 kB")

	_, err = svc.Upload(ctx, &UploadParams{Field: "../x", FileName: "cv.pdf", Size: 4, Body: strings.NewReader("%PDF")})
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.Empty(t, backend.objects)
}

func TestUpload_BackendError(t *testing.T) {
	svc, backend := newTestService(t)
	backend.putErr = errors.New("bucket gone")

	_, err := svc.Upload(context.Background(), &UploadParams{Field: "resume", FileName: "cv.doc", Size: 4, Body: strings.NewReader("abcd")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestDelete(t *testing.T) {
	svc, backend := newTestService(t)
	backend.objects["gensquad_uploads/resume-1.pdf"] = []byte("x")

	require.NoError(t, svc.Delete(context.Background(), "gensquad_uploads/resume-1.pdf"))
	assert.Empty(t, backend.objects)
}
