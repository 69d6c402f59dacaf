package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// defaultUploadPreset is the unsigned preset configured on the media
// cloud for images and audio.
const defaultUploadPreset = "novelnexus_unsigned"

// Cloudinary uploads files to two clouds: the default one through an
// unsigned preset, and a dedicated PDF cloud through signed raw
// uploads. BaseURL is overridable for tests.
type Cloudinary struct {
	CloudName    string
	PDFCloudName string
	PDFAPIKey    string
	PDFAPISecret string
	BaseURL      string
	HTTP         *http.Client
}

// NewCloudinary wires a client with a 60 second timeout; uploads can
// carry tens of megabytes.
func NewCloudinary(cloudName, pdfCloud, pdfKey, pdfSecret string) *Cloudinary {
	return &Cloudinary{
		CloudName:    cloudName,
		PDFCloudName: pdfCloud,
		PDFAPIKey:    pdfKey,
		PDFAPISecret: pdfSecret,
		BaseURL:      "https://api.cloudinary.com",
		HTTP:         &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadResult is the subset of the Cloudinary response we care about.
type UploadResult struct {
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	Bytes        int64  `json:"bytes"`
	Format       string `json:"format"`
	ResourceType string `json:"resource_type"`
}

// SignRawUpload computes the request signature for a signed raw
// upload: SHA-1 over the sorted parameter string followed by the API
// secret.
func SignRawUpload(folder string, timestamp int64, secret string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%d%s", folder, timestamp, secret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}

// UploadPDF performs a signed raw upload to the PDF cloud under
// documents/<folder>.
func (c *Cloudinary) UploadPDF(ctx context.Context, folder, filename string, file io.Reader) (UploadResult, error) {
	if c.PDFCloudName == "" || c.PDFAPIKey == "" || c.PDFAPISecret == "" {
		return UploadResult{}, fmt.Errorf("pdf cloud not configured")
	}
	target := "documents/" + folder
	ts := time.Now().Unix()

	fields := map[string]string{
		"api_key":   c.PDFAPIKey,
		"timestamp": strconv.FormatInt(ts, 10),
		"signature": SignRawUpload(target, ts, c.PDFAPISecret),
		"folder":    target,
	}
	endpoint := fmt.Sprintf("%s/v1_1/%s/raw/upload", c.BaseURL, c.PDFCloudName)
	return c.post(ctx, endpoint, fields, filename, file)
}

// UploadMedia performs an unsigned upload through the preset to
// hekayaty/<folder> on the default cloud. Cloudinary detects the
// resource type from the file itself.
func (c *Cloudinary) UploadMedia(ctx context.Context, folder, filename string, file io.Reader) (UploadResult, error) {
	fields := map[string]string{
		"upload_preset": defaultUploadPreset,
		"folder":        "hekayaty/" + folder,
	}
	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", c.BaseURL, c.CloudName)
	return c.post(ctx, endpoint, fields, filename, file)
}

func (c *Cloudinary) post(ctx context.Context, endpoint string, fields map[string]string, filename string, file io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return UploadResult{}, fmt.Errorf("cloudinary upload failed: %s: %s", resp.Status, string(b))
	}
	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}
