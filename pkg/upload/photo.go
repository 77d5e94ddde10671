package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	apperrors "github.com/medq/hospital-api/pkg/errors"
)

// MaxPhotoSize is the upload limit for profile photos.
const MaxPhotoSize = 5 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ReadPhoto validates and reads an uploaded photo. The content type is
// sniffed from the file bytes rather than trusted from the request header.
func ReadPhoto(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > MaxPhotoSize {
		return nil, apperrors.Validation(fmt.Sprintf("photo exceeds maximum size of %d bytes", MaxPhotoSize), nil)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxPhotoSize {
		return nil, apperrors.Validation(fmt.Sprintf("photo exceeds maximum size of %d bytes", MaxPhotoSize), nil)
	}

	if err := ValidatePhotoType(http.DetectContentType(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidatePhotoType checks the detected MIME type against the allowed set.
func ValidatePhotoType(contentType string) error {
	if !allowedPhotoTypes[contentType] {
		return apperrors.Validation(fmt.Sprintf("unsupported photo type %q, must be JPEG, PNG or GIF", contentType), nil)
	}
	return nil
}
