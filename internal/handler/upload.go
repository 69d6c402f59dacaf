package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/repository"
	"github.com/hekayaty/hekayaty-server/internal/service"
)

// maxUploadBytes caps one upload at 50MB.
const maxUploadBytes = 50 << 20

// allowedUploadTypes is the content-type allowlist.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"audio/mpeg":      true,
	"audio/wav":       true,
}

// UploadHandler bridges multipart uploads to Cloudinary. PDFs go to
// the dedicated PDF cloud through signed raw uploads; everything else
// goes through the unsigned preset.
type UploadHandler struct {
	Cloudinary *service.Cloudinary
	Audit      *repository.AuditLogRepo
}

func NewUploadHandler(cl *service.Cloudinary, a *repository.AuditLogRepo) *UploadHandler {
	return &UploadHandler{Cloudinary: cl, Audit: a}
}

// Upload accepts one "file" form part plus an optional "folder" field.
// Oversized or disallowed files are rejected; disallowed types are
// also recorded as suspicious_upload.
func (h *UploadHandler) Upload(c echo.Context) error {
	// Cut oversized bodies off while they stream in rather than after
	// the multipart parser has buffered them.
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds 50MB limit"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds 50MB limit"})
	}

	contentType := fh.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		h.auditSuspicious(c, fh.Filename, contentType)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported file type"})
	}

	folder := strings.TrimSpace(c.FormValue("folder"))
	if folder == "" {
		folder = "misc"
	}
	// Folder names feed into upload paths; keep them flat.
	if strings.ContainsAny(folder, "/\\.") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid folder"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	ctx := c.Request().Context()
	var res service.UploadResult
	if contentType == "application/pdf" {
		res, err = h.Cloudinary.UploadPDF(ctx, folder, fh.Filename, src)
	} else {
		res, err = h.Cloudinary.UploadMedia(ctx, folder, fh.Filename, src)
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"url":           res.SecureURL,
		"public_id":     res.PublicID,
		"bytes":         res.Bytes,
		"resource_type": res.ResourceType,
		"format":        res.Format,
	})
}

func (h *UploadHandler) auditSuspicious(c echo.Context, filename, contentType string) {
	if h.Audit == nil {
		return
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, _ := json.Marshal(echo.Map{"filename": filename, "content_type": contentType})
	_, _ = h.Audit.Insert(ctx, currentUserID(c), "suspicious_upload", string(b), clientIP(c))
}
