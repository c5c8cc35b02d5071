package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/core/config"
)

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func uploadEndpoints(t *testing.T) *HttpEndpoints {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.UploadDir = t.TempDir()
	return &HttpEndpoints{cfg: cfg}
}

func TestUploadAsset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := uploadEndpoints(t)

	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
	}{
		{"png allowed", "logo.png", []byte("fake png"), http.StatusCreated},
		{"uppercase extension allowed", "photo.JPG", []byte("fake jpg"), http.StatusCreated},
		{"svg allowed", "icon.svg", []byte("<svg/>"), http.StatusCreated},
		{"executable rejected", "evil.exe", []byte("MZ"), http.StatusForbidden},
		{"html rejected", "page.html", []byte("<html>"), http.StatusForbidden},
		{"no extension rejected", "README", []byte("text"), http.StatusForbidden},
		{"oversized rejected", "big.png", make([]byte, 5*1024*1024+1), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = uploadRequest(t, tt.filename, tt.content)

			h.uploadAsset(c)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
