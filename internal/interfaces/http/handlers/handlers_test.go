package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockStorage is a testify mock of minio.ObjectStorageRepository.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, req *minio.UploadRequest) (*minio.UploadResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*minio.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) Download(ctx context.Context, bucket, objectKey string) (*minio.DownloadResult, error) {
	args := m.Called(ctx, bucket, objectKey)
	if r := args.Get(0); r != nil {
		return r.(*minio.DownloadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) Exists(ctx context.Context, bucket, objectKey string) (bool, error) {
	args := m.Called(ctx, bucket, objectKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorage) Get(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if r := args.Get(0); r != nil {
		return r.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) Put(ctx context.Context, path string, data []byte, contentType string, metadata map[string]string) error {
	args := m.Called(ctx, path, data, contentType, metadata)
	return args.Error(0)
}

// newEngine returns a gin engine with the routes added by register.
func newEngine(register func(r gin.IRoutes)) *gin.Engine {
	r := gin.New()
	register(r)
	return r
}

// doJSON sends body as JSON and returns the recorded response.
func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decode unmarshals the recorded body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
