package payments

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProofStorage is the port for payment proof object storage. The
// infrastructure layer implements it over an S3-compatible backend.
type ProofStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// allowedProofContentTypes maps accepted upload content types to the file
// extension stored under the proof key
var allowedProofContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ProofUploadTicket is what the client needs to upload a payment proof
// directly to object storage.
type ProofUploadTicket struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ProofService issues presigned upload and download URLs for payment
// proof images. The resident uploads the proof before registering the
// payment and submits the storage key as the payment's proof reference.
type ProofService struct {
	storage ProofStorage
	logger  *zap.Logger
}

// NewProofService creates a new ProofService
func NewProofService(storage ProofStorage, logger *zap.Logger) *ProofService {
	return &ProofService{storage: storage, logger: logger}
}

// CreateUploadTicket validates the content type and returns a presigned
// upload URL under a user-scoped storage key.
func (s *ProofService) CreateUploadTicket(ctx context.Context, userID uuid.UUID, contentType string) (*ProofUploadTicket, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	ext, ok := allowedProofContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not accepted for payment proofs", contentType))
	}

	storageKey := path.Join("payment-proofs", userID.String(), uuid.NewString()+ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, 0)
	if err != nil {
		s.logger.Error("failed to presign proof upload",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Could not create upload URL")
	}

	return &ProofUploadTicket{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ResolveDownloadURL returns a short-lived download URL for a stored proof
func (s *ProofService) ResolveDownloadURL(ctx context.Context, storageKey string) (string, error) {
	if strings.TrimSpace(storageKey) == "" {
		return "", shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, 0)
	if err != nil {
		s.logger.Error("failed to presign proof download",
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return "", shared.NewDomainError("STORAGE_ERROR", "Could not create download URL")
	}
	return url, nil
}
