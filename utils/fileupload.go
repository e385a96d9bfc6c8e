package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// AllowedDocumentFormat is PDF
	AllowedDocumentFormat = ".pdf"
	// PDFContentType is stored on uploaded quote documents
	PDFContentType = "application/pdf"
)

var pdfMagic = []byte("%PDF-")

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidatePDFFile checks the size, extension and leading bytes of an uploaded quote document
func ValidatePDFFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedDocumentFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedDocumentFormat),
		}
	}

	content, err := ReadUploadedFile(fileHeader)
	if err != nil {
		return &FileUploadError{Code: "INVALID_FILE", Message: "Failed to read uploaded file"}
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "File is not a valid PDF document",
		}
	}

	return nil
}

// ReadUploadedFile returns the full content of an uploaded file
func ReadUploadedFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("warning: failed to close uploaded file: %v\n", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, nil
}

// DocumentFilename returns a safe base name for storing an uploaded file
func DocumentFilename(original string) string {
	name := filepath.Base(original)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "_" {
		return "quote.pdf"
	}
	return name
}
