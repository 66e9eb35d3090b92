package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"mmvds/files-api/internal/apperr"
	"mmvds/files-api/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	root string
}

func NewService(db *gorm.DB, root string) *Service {
	return &Service{db: db, root: root}
}

// Store writes the file bytes and then creates the metadata record. The
// order matters: a write failure aborts the request before any metadata
// is committed, so a record never points at bytes that were not written.
// A crash between the two steps can still orphan the bytes on disk,
// which is the accepted baseline.
func (s *Service) Store(userID, filename, logicalPath string, r io.Reader) (*model.File, error) {
	concretePath, adjustedPath, err := s.Resolve(userID, logicalPath, filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(concretePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file, %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write file bytes, %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file, %w", err)
	}

	record := &model.File{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           filename,
		Path:           adjustedPath,
		Size:           written,
		IsDownloadable: true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create file record, %w", err)
	}

	return record, nil
}

// Lookup finds a file record by the given selector, which is either a
// generated identifier or a logical path. Generated IDs have a fixed
// 36-character shape and are globally unique; paths are only unique per
// user, so the path branch is scoped to the caller and one user's path
// never shadows another's.
func (s *Service) Lookup(userID, selector string) (*model.File, error) {
	var (
		record model.File
		err    error
	)

	if isGeneratedID(selector) {
		err = s.db.Where("id = ?", selector).First(&record).Error
	} else {
		err = s.db.Where("user_id = ? AND path = ?", userID, selector).First(&record).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("failed to look up file record, %w", err)
	}

	return &record, nil
}

// ListForUser returns every file record the user owns. Zero records is
// reported as not found; by this point authentication already proved the
// user exists.
func (s *Service) ListForUser(userID string) ([]model.File, error) {
	var records []model.File

	if err := s.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list file records, %w", err)
	}

	if len(records) == 0 {
		return nil, apperr.ErrNotFound
	}

	return records, nil
}

// CheckOwnership rejects access to a record owned by someone else.
func (s *Service) CheckOwnership(record *model.File, userID string) error {
	if record.UserID != userID {
		return apperr.ErrForbidden
	}

	return nil
}

// DiskPath exposes the concrete location of a stored file for serving.
func (s *Service) DiskPath(userID, logicalPath string) string {
	return s.diskPath(userID, logicalPath)
}

func isGeneratedID(selector string) bool {
	if len(selector) != 36 {
		return false
	}

	_, err := uuid.Parse(selector)
	return err == nil
}
