package talent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gensquad/talentbase/internal/db"
	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/talent"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memBackend) PutObject(ctx context.Context, params *blob.PutObjectParams) (*blob.PutObjectResponse, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[params.Key] = data
	return &blob.PutObjectResponse{Key: params.Key, ETag: "etag", Size: int64(len(data))}, nil
}

func (m *memBackend) DeleteObject(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return true, nil
}

func (m *memBackend) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func setupRouter(t *testing.T, withUploads bool) (*gin.Engine, *memBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.NewSqliteDB(db.WithMaxOpenConns(1), db.WithMigrations())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	backend := &memBackend{objects: map[string][]byte{}}
	var uploader talent.Uploader
	if withUploads {
		cfg := &blob.S3Config{
			BucketName: "talent",
			Region:     "us-east-1",
			AccessKey:  "key",
			SecretKey:  "secret",
			PublicURL:  "https://cdn.test",
		}
		require.NoError(t, cfg.Validate())
		uploader = blob.NewBlobServiceWithBackend(cfg, backend)
	}

	h := NewTalentHandler(talent.NewTalentService(talent.NewStore(database), uploader))
	r := gin.New()
	r.POST("/api/talent", h.Create)
	r.GET("/api/talent", h.List)
	r.GET("/api/talent/:id", h.Get)
	r.PUT("/api/talent/:id", h.Update)
	return r, backend
}

func doJSON(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type multipartFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, url string, values map[string]string, files ...multipartFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const adaJSON = `{
	"fullName": "Ada Lovelace",
	"title": "Engineer",
	"email": "Ada@Example.com",
	"tools": ["go", "sqlite"],
	"address": {"city": "London"}
}`

func TestTalentHandler_CreateJSON(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/talent", adaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[talent.Talent](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, talent.DefaultStatus, created.Status)
	assert.Equal(t, []string{"go", "sqlite"}, created.Tools)
	assert.Equal(t, "London", created.Address.City)
	assert.NotNil(t, created.Experiences)

	w = doJSON(r, http.MethodGet, "/api/talent/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[talent.Talent](t, w)
	assert.Equal(t, created.ID, got.ID)

	w = doJSON(r, http.MethodGet, "/api/talent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]talent.Talent](t, w), 1)
}

func TestTalentHandler_CreateRejects(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/talent", adaJSON)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name string
		body string
	}{
		{"duplicate email", `{"fullName":"Ada","title":"Dev","email":"ada@example.com"}`},
		{"missing title", `{"fullName":"Ada","email":"other@example.com"}`},
		{"bad email", `{"fullName":"Ada","title":"Dev","email":"nope"}`},
		{"malformed body", `{"fullName":`},
		{"bad nested field", `{"fullName":"Ada","title":"Dev","email":"x@example.com","tools":"[1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/talent", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decode[map[string]string](t, w)
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["code"])
		})
	}

	w = doJSON(r, http.MethodGet, "/api/talent", "")
	assert.Len(t, decode[[]talent.Talent](t, w), 1)
}

func TestTalentHandler_CreateMultipart(t *testing.T) {
	r, backend := setupRouter(t, true)

	req := multipartRequest(t, http.MethodPost, "/api/talent", map[string]string{
		"fullName":  "Grace Hopper",
		"title":     "Admiral",
		"email":     "grace@example.com",
		"topSkills": `[{"name":"COBOL","exp":"10"}]`,
		"social":    `{"github":"grace"}`,
	}, multipartFile{field: talent.FieldProfileImage, name: "me.png", data: pngHeader})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[talent.Talent](t, w)
	assert.Equal(t, []talent.Skill{{Name: "COBOL", Exp: "10"}}, created.TopSkills)
	assert.Equal(t, "grace", created.Social.GitHub)
	assert.True(t, strings.HasPrefix(created.ProfileImage, "https://cdn.test/"+blob.DefaultFolder+"/"))
	assert.Equal(t, 1, backend.count())
}

func TestTalentHandler_CreateMultipartRejectsFile(t *testing.T) {
	r, backend := setupRouter(t, true)

	req := multipartRequest(t, http.MethodPost, "/api/talent", map[string]string{
		"fullName": "Grace Hopper",
		"title":    "Admiral",
		"email":    "grace@example.com",
	}, multipartFile{field: talent.FieldResume, name: "cv.exe", data: []byte("MZ")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, 0, backend.count())
}

func TestTalentHandler_UploadsDisabled(t *testing.T) {
	r, _ := setupRouter(t, false)

	req := multipartRequest(t, http.MethodPost, "/api/talent", map[string]string{
		"fullName": "Grace Hopper",
		"title":    "Admiral",
		"email":    "grace@example.com",
	}, multipartFile{field: talent.FieldProfileImage, name: "me.png", data: pngHeader})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestTalentHandler_NotFound(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodGet, "/api/talent/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]string{"msg": "Talent not found"}, decode[map[string]string](t, w))

	w = doJSON(r, http.MethodPut, "/api/talent/missing", `{"title":"CTO"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]string{"msg": "Talent not found"}, decode[map[string]string](t, w))
}

func TestTalentHandler_UpdatePartial(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/talent", adaJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[talent.Talent](t, w)

	w = doJSON(r, http.MethodPut, "/api/talent/"+created.ID, `{"title":"CTO","status":"Busy"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[talent.Talent](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "CTO", updated.Title)
	assert.Equal(t, "Busy", updated.Status)
	assert.Equal(t, "Ada Lovelace", updated.FullName)
	assert.Equal(t, []string{"go", "sqlite"}, updated.Tools)

	// an empty body changes nothing
	w = doJSON(r, http.MethodPut, "/api/talent/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CTO", decode[talent.Talent](t, w).Title)
}

func TestTalentHandler_UpdateInvalid(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodPost, "/api/talent", adaJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	ada := decode[talent.Talent](t, w)

	w = doJSON(r, http.MethodPost, "/api/talent", `{"fullName":"Bob","title":"Dev","email":"bob@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPut, "/api/talent/"+ada.ID, `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/talent/"+ada.ID, `{"fullName":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
