package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/utils"
)

// DocumentService stores the PDF attached to a contractor quote
type DocumentService interface {
	// UploadQuotePDF validates and stores a quote PDF, returns the storage key
	UploadQuotePDF(ctx context.Context, projectID, contractorID string, fileHeader *multipart.FileHeader) (string, error)

	// GetDocumentURL returns a short-lived download URL
	GetDocumentURL(ctx context.Context, key string) (string, error)

	// DeleteDocument removes a stored document
	DeleteDocument(ctx context.Context, key string) error
}

// S3DocumentService implements DocumentService on top of S3
type S3DocumentService struct {
	storage S3Interface
	now     func() time.Time
}

var documentServiceInstance DocumentService

// InitDocumentService initializes the document service with an S3 backend
func InitDocumentService(storage S3Interface) DocumentService {
	documentServiceInstance = NewS3DocumentService(storage)
	return documentServiceInstance
}

// NewS3DocumentService creates a document service over storage
func NewS3DocumentService(storage S3Interface) *S3DocumentService {
	return &S3DocumentService{storage: storage, now: time.Now}
}

// GetDocumentService returns the initialized document service instance
func GetDocumentService() DocumentService {
	return documentServiceInstance
}

// SetDocumentService sets the document service instance (primarily for testing)
func SetDocumentService(service DocumentService) {
	documentServiceInstance = service
}

// QuoteDocumentKey builds the storage key: quotes/{projectID}/{contractorID}/{unix}_{filename}
func QuoteDocumentKey(projectID, contractorID string, at time.Time, filename string) string {
	return fmt.Sprintf("quotes/%s/%s/%d_%s", projectID, contractorID, at.Unix(), utils.DocumentFilename(filename))
}

func (s *S3DocumentService) UploadQuotePDF(ctx context.Context, projectID, contractorID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePDFFile(fileHeader); err != nil {
		return "", err
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		return "", err
	}

	key := QuoteDocumentKey(projectID, contractorID, s.now(), fileHeader.Filename)
	if err := s.storage.PutObject(ctx, key, content, utils.PDFContentType); err != nil {
		return "", fmt.Errorf("failed to upload quote document: %w", err)
	}

	return key, nil
}

func (s *S3DocumentService) GetDocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.storage.GetPresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate document URL: %w", err)
	}
	return url, nil
}

func (s *S3DocumentService) DeleteDocument(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.storage.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
