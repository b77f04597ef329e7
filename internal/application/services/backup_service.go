package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// BackupService exports and imports the whole local content document.
type BackupService struct {
	local  *repository.LocalContentRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewBackupService creates a backup service.
func NewBackupService(local *repository.LocalContentRepository, logger *logger.Logger) *BackupService {
	return &BackupService{
		local:  local,
		logger: logger,
		now:    time.Now,
	}
}

var _ ports.BackupService = (*BackupService)(nil)

// WithClock overrides the service clock. Used in tests.
func (s *BackupService) WithClock(now func() time.Time) *BackupService {
	s.now = now
	return s
}

// Export returns the whole local document and a date-stamped filename for
// the download.
func (s *BackupService) Export(ctx context.Context) (*entities.Document, string, error) {
	doc := s.local.Document(ctx)
	filename := fmt.Sprintf("studio-backup-%s.json", s.now().Format("2006-01-02"))
	return doc, filename, nil
}

// Import parses an uploaded document and wholesale-replaces the local one.
// A document carrying neither a photos nor a settings key is rejected with
// no mutation.
func (s *BackupService) Import(ctx context.Context, raw []byte) (*entities.Document, error) {
	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	if !doc.HasContent() {
		return nil, entities.ErrInvalidDocument
	}

	if err := s.local.ReplaceDocument(ctx, &doc); err != nil {
		return nil, err
	}

	s.logger.Info("Document imported",
		"photos", len(doc.Photos),
		"work_cards", len(doc.WorkCards),
		"services", len(doc.Services),
	)
	return &doc, nil
}
