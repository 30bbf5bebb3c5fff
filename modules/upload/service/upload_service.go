package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/storage"
	"studio-api/core/utils"
	"studio-api/modules/upload/dto"

	"github.com/google/uuid"
)

// maxUploadSize caps a single file at 25 MB, enough for full-resolution
// JPEGs and small deliverable archives.
const maxUploadSize = 25 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
	"application/zip": true,
}

type UploadService struct {
	storage storage.Storage
}

type UploadServiceInterface interface {
	UploadFile(ctx context.Context, companyID uuid.UUID, filename, contentType string, size int64, body io.Reader) (*dto.UploadResponse, *errors.AppError)
	DeleteFile(ctx context.Context, key string) *errors.AppError
}

func NewUploadService(s storage.Storage) UploadServiceInterface {
	return &UploadService{storage: s}
}

func (s *UploadService) UploadFile(ctx context.Context, companyID uuid.UUID, filename, contentType string, size int64, body io.Reader) (*dto.UploadResponse, *errors.AppError) {
	if companyID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Company id is required", nil)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Filename is required", nil)
	}
	if size <= 0 || size > maxUploadSize {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("File size must be between 1 byte and %d MB", maxUploadSize>>20), nil)
	}
	if !allowedContentTypes[contentType] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unsupported file type", nil)
	}

	key := fmt.Sprintf("uploads/%s/%s-%s", companyID, utils.GenerateID(), sanitizeFilename(filename))

	url, err := s.storage.Upload(ctx, key, contentType, io.LimitReader(body, maxUploadSize))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to upload file", err)
	}

	logger.Info("UploadService:UploadFile", "key", key, "content_type", contentType)
	return &dto.UploadResponse{Key: key, URL: url}, nil
}

func (s *UploadService) DeleteFile(ctx context.Context, key string) *errors.AppError {
	if !strings.HasPrefix(key, "uploads/") || strings.Contains(key, "..") {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid object key", nil)
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete file", err)
	}
	return nil
}

// sanitizeFilename keeps the original base name but strips path separators
// and characters that complicate S3 keys.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
