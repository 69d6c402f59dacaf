package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignRawUpload(t *testing.T) {
	t.Parallel()

	sum := sha1.Sum([]byte("folder=documents/stories&timestamp=1700000000s3cr3t"))
	want := hex.EncodeToString(sum[:])
	got := SignRawUpload("documents/stories", 1700000000, "s3cr3t")
	if got != want {
		t.Fatalf("signature = %s, want %s", got, want)
	}
	if got == SignRawUpload("documents/stories", 1700000001, "s3cr3t") {
		t.Fatal("signature does not depend on timestamp")
	}
	if got == SignRawUpload("documents/stories", 1700000000, "other") {
		t.Fatal("signature does not depend on secret")
	}
}

func TestUploadPDF(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		fmt.Fprint(w, `{"secure_url":"https://res.cloudinary.com/pdf/doc.pdf","public_id":"documents/stories/doc","bytes":12,"format":"pdf"}`)
	}))
	defer srv.Close()

	c := NewCloudinary("media", "pdfcloud", "key123", "secret456")
	c.BaseURL = srv.URL

	res, err := c.UploadPDF(context.Background(), "stories", "doc.pdf", strings.NewReader("%PDF-1.4 ..."))
	if err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	if res.SecureURL != "https://res.cloudinary.com/pdf/doc.pdf" {
		t.Fatalf("secure_url = %s", res.SecureURL)
	}
	if gotPath != "/v1_1/pdfcloud/raw/upload" {
		t.Fatalf("path = %s, want /v1_1/pdfcloud/raw/upload", gotPath)
	}
	if gotForm["api_key"] != "key123" {
		t.Fatalf("api_key = %s", gotForm["api_key"])
	}
	if gotForm["folder"] != "documents/stories" {
		t.Fatalf("folder = %s", gotForm["folder"])
	}
	if gotForm["signature"] == "" || gotForm["timestamp"] == "" {
		t.Fatal("missing signature or timestamp field")
	}
}

func TestUploadPDFUnconfigured(t *testing.T) {
	t.Parallel()

	c := NewCloudinary("media", "", "", "")
	if _, err := c.UploadPDF(context.Background(), "stories", "doc.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected error without pdf cloud credentials")
	}
}

func TestUploadMedia(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		fmt.Fprint(w, `{"secure_url":"https://res.cloudinary.com/media/cover.webp","public_id":"hekayaty/covers/cover","bytes":5,"format":"webp"}`)
	}))
	defer srv.Close()

	c := NewCloudinary("media", "", "", "")
	c.BaseURL = srv.URL

	res, err := c.UploadMedia(context.Background(), "covers", "cover.webp", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if res.PublicID != "hekayaty/covers/cover" {
		t.Fatalf("public_id = %s", res.PublicID)
	}
	if gotPath != "/v1_1/media/auto/upload" {
		t.Fatalf("path = %s, want /v1_1/media/auto/upload", gotPath)
	}
	if gotForm["upload_preset"] != defaultUploadPreset {
		t.Fatalf("upload_preset = %s", gotForm["upload_preset"])
	}
	if gotForm["folder"] != "hekayaty/covers" {
		t.Fatalf("folder = %s", gotForm["folder"])
	}
}

func TestUploadMediaUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid preset"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewCloudinary("media", "", "", "")
	c.BaseURL = srv.URL

	_, err := c.UploadMedia(context.Background(), "covers", "cover.png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error on upstream 400")
	}
	if !strings.Contains(err.Error(), "invalid preset") {
		t.Fatalf("error does not carry upstream body: %v", err)
	}
}
