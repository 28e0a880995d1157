package service

import (
	"context"
	"os"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/storage"
	"docs-approval-backend/internal/translator"
)

// TranslationVendor is the remote file translation protocol.
type TranslationVendor interface {
	Configured() bool
	Upload(ctx context.Context, req translator.UploadRequest) (string, error)
	Query(ctx context.Context, flowNumber string) (*domain.TranslationStatus, error)
	Download(ctx context.Context, flowNumber, downloadFileType string) ([]byte, error)
}

type translationService struct {
	store  repository.Store
	files  storage.FileStore
	vendor TranslationVendor
}

func NewTranslationService(store repository.Store, files storage.FileStore, vendor TranslationVendor) TranslationService {
	return &translationService{
		store:  store,
		files:  files,
		vendor: vendor,
	}
}

func (s *translationService) Configured() bool {
	return s.vendor.Configured()
}

func (s *translationService) CheckFileAccess(ctx context.Context, principal *domain.Principal, fileID string) (*domain.File, error) {
	file, err := s.store.Files().GetActive(ctx, fileID)
	if err != nil {
		return nil, domain.NewServerError(domain.ErrTypeUnknown, "Unable to load file", err)
	}
	if file == nil {
		return nil, domain.NewNotFoundError(domain.ErrTypeNotFound, "File not found")
	}
	if principal == nil || (file.UserID != principal.UserID && !principal.IsAdmin()) {
		return nil, domain.NewForbiddenError("You do not have access to this file")
	}
	return file, nil
}

func (s *translationService) Submit(ctx context.Context, fileID, from, to, userID string) (string, bool) {
	logger.EnterMethod("translationService.Submit", "file_id", fileID, "from", from, "to", to)

	if !s.vendor.Configured() {
		logger.ErrorContext(ctx, "Translation API not configured")
		return "", false
	}

	file, err := s.store.Files().GetActive(ctx, fileID)
	if err != nil || file == nil {
		logger.ErrorContext(ctx, "File not found", "file_id", fileID, "error", err)
		return "", false
	}
	fileType, ok := translator.FileTypeFor(file.MimeType)
	if !ok {
		logger.ErrorContext(ctx, "Unsupported file type for translation", "file_id", fileID, "mimetype", file.MimeType)
		return "", false
	}

	owner, err := s.store.Users().GetByID(ctx, file.UserID)
	if err != nil || owner == nil {
		logger.ErrorContext(ctx, "File owner not found", "file_id", fileID, "user_id", file.UserID, "error", err)
		return "", false
	}

	path, cleanup, err := s.files.DecryptToTemp(file.ID, owner.PrivateKey)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to decrypt file", "file_id", fileID, "error", err)
		return "", false
	}
	defer cleanup()

	content, err := os.ReadFile(path)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read decrypted file", "file_id", fileID, "error", err)
		return "", false
	}

	name := ""
	if file.Name != nil {
		name = *file.Name
	}
	logger.InfoContext(ctx, "Uploading file for translation", "file_id", fileID, "requested_by", userID, "bytes", len(content), "from", from, "to", to)

	flowNumber, err := s.vendor.Upload(ctx, translator.UploadRequest{
		Content:  content,
		FileName: name,
		FileType: fileType,
		From:     from,
		To:       to,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Error uploading file for translation", "file_id", fileID, "error", err)
		return "", false
	}

	logger.ExitMethod("translationService.Submit", "flow_number", flowNumber)
	return flowNumber, true
}

func (s *translationService) PollStatus(ctx context.Context, flowNumber string) (*domain.TranslationStatus, bool) {
	status, err := s.vendor.Query(ctx, flowNumber)
	if err != nil {
		logger.ErrorContext(ctx, "Error checking translation status", "flow_number", flowNumber, "error", err)
		return nil, false
	}
	logger.DebugContext(ctx, "Translation status", "flow_number", flowNumber, "error_code", status.ErrorCode, "status", status.Status)
	return status, true
}

func (s *translationService) Download(ctx context.Context, flowNumber, fileType string) ([]byte, bool) {
	content, err := s.vendor.Download(ctx, flowNumber, fileType)
	if err != nil {
		logger.ErrorContext(ctx, "Error downloading translated document", "flow_number", flowNumber, "error", err)
		return nil, false
	}
	return content, true
}
