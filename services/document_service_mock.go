package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/renovation-quotes-api/utils"
)

// MockDocumentService is a mock implementation of DocumentService for testing
type MockDocumentService struct {
	documents map[string][]byte
	mu        sync.RWMutex
}

// NewMockDocumentService creates a new mock document service
func NewMockDocumentService() *MockDocumentService {
	return &MockDocumentService{
		documents: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global document service instance for testing
func (m *MockDocumentService) SetAsMockForTesting() {
	SetDocumentService(m)
}

// UploadQuotePDF validates the file and keeps it in memory
func (m *MockDocumentService) UploadQuotePDF(ctx context.Context, projectID, contractorID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePDFFile(fileHeader); err != nil {
		return "", err
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("quotes/%s/%s/mock_%s", projectID, contractorID, utils.DocumentFilename(fileHeader.Filename))

	m.mu.Lock()
	m.documents[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetDocumentURL simulates generating a download URL
func (m *MockDocumentService) GetDocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.documents[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("document not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteDocument simulates deleting a document
func (m *MockDocumentService) DeleteDocument(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.documents, key)
	m.mu.Unlock()
	return nil
}

// DocumentExists checks if a document exists in mock storage
func (m *MockDocumentService) DocumentExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.documents[key]
	return exists
}

// Clear removes all documents from mock storage
func (m *MockDocumentService) Clear() {
	m.mu.Lock()
	m.documents = make(map[string][]byte)
	m.mu.Unlock()
}
