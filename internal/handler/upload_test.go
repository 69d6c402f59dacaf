package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/service"
)

func multipartUpload(t *testing.T, filename, contentType, folder, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			t.Fatalf("write folder field: %v", err)
		}
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func doUpload(t *testing.T, h *UploadHandler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return rec
}

func TestUploadRejectsMissingFile(t *testing.T) {
	t.Parallel()

	h := NewUploadHandler(nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file required") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	t.Parallel()

	h := NewUploadHandler(nil, nil)
	body, ct := multipartUpload(t, "payload.exe", "application/x-msdownload", "", "MZ")

	rec := doUpload(t, h, body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unsupported file type") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestUploadRejectsNestedFolder(t *testing.T) {
	t.Parallel()

	h := NewUploadHandler(nil, nil)
	tests := []string{"../covers", "a/b", `a\b`}
	for _, folder := range tests {
		folder := folder
		t.Run(folder, func(t *testing.T) {
			t.Parallel()
			body, ct := multipartUpload(t, "cover.png", "image/png", folder, "\x89PNG")
			rec := doUpload(t, h, body, ct)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "invalid folder") {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestUploadReturnsCloudinaryMetadata(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/media/auto/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"secure_url": "https://res.cloudinary.com/media/image/upload/v1/hekayaty/covers/cover.png",
			"public_id": "hekayaty/covers/cover",
			"bytes": 4,
			"format": "png",
			"resource_type": "image"
		}`))
	}))
	t.Cleanup(upstream.Close)

	cl := &service.Cloudinary{CloudName: "media", BaseURL: upstream.URL, HTTP: upstream.Client()}
	h := NewUploadHandler(cl, nil)
	body, ct := multipartUpload(t, "cover.png", "image/png", "covers", "\x89PNG")

	rec := doUpload(t, h, body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"resource_type":"image"`, `"format":"png"`, `"public_id":"hekayaty/covers/cover"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("body missing %s: %q", want, rec.Body.String())
		}
	}
}
