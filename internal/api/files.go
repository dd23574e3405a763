package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

// MaxUploadSize is enforced client-side before any bytes leave the process.
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UploadFile attaches a local file to a claim. Size and type are rejected
// locally; oversized or unsupported files never produce a request.
func (c *Client) UploadFile(ctx context.Context, claimID, path string) (models.FileAttachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.FileAttachment{}, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return models.FileAttachment{}, fmt.Errorf("%s is %d bytes: %w", filepath.Base(path), info.Size(), ErrFileTooLarge)
	}
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return models.FileAttachment{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrFileType)
	}

	file, err := os.Open(path)
	if err != nil {
		return models.FileAttachment{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("claimId", claimID); err != nil {
		return models.FileAttachment{}, fmt.Errorf("build upload: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return models.FileAttachment{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(file, MaxUploadSize)); err != nil {
		return models.FileAttachment{}, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.FileAttachment{}, fmt.Errorf("build upload: %w", err)
	}

	var attachment models.FileAttachment
	if err := c.upload(ctx, "/api/files/upload", body.Bytes(), writer.FormDataContentType(), &attachment); err != nil {
		return models.FileAttachment{}, err
	}
	return attachment, nil
}

// upload mirrors do for a pre-built multipart body, keeping the one-shot
// refresh-and-retry behavior.
func (c *Client) upload(ctx context.Context, path string, body []byte, contentType string, out interface{}) error {
	retried := false
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		c.authorize(req)

		retry, err := c.execute(req, out, &retried)
		if retry {
			continue
		}
		return err
	}
}

func (c *Client) ClaimFiles(ctx context.Context, claimID string) ([]models.FileAttachment, error) {
	var files []models.FileAttachment
	if err := c.do(ctx, http.MethodGet, "/api/files/claim/"+claimID, nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+fileID, nil, nil, nil)
}
