package upload

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func uploadRouter(dir string, max int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(dir, max)).RegisterRoutes(r.Group("/api"))
	return r
}

func TestUpload_SavesPhoto(t *testing.T) {
	dir := t.TempDir()
	body, ct := multipartBody(t, "photo", "camp view.png", pngBytes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	uploadRouter(dir, 0).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, strings.HasPrefix(res["url"], "/uploads/photo-"))
	assert.True(t, strings.HasSuffix(res["url"], "-camp_view.png"))

	_, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(res["url"], "/uploads/")))
	assert.NoError(t, err)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	body, ct := multipartBody(t, "photo", "notes.txt", []byte("just some text, not an image"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	uploadRouter(t.TempDir(), 0).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_MissingField(t *testing.T) {
	body, ct := multipartBody(t, "file", "a.png", pngBytes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	uploadRouter(t.TempDir(), 0).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, w.Body.String())
}

func TestUpload_TooLarge(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)
	body, ct := multipartBody(t, "photo", "big.png", big)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	uploadRouter(t.TempDir(), 1024).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
