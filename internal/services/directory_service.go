package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cryptoupi/internal/models"
	"cryptoupi/internal/pdf"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEntryNotFound = errors.New("entry not found")
)

const maxReportEntries = 10000

type DirectoryStore interface {
	Create(ctx context.Context, id, name string) (*models.DirectoryEntry, error)
	Update(ctx context.Context, id, name string) (*models.DirectoryEntry, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.DirectoryEntry, error)
	List(ctx context.Context, limit, offset int) ([]*models.DirectoryEntry, error)
}

type DirectoryService struct {
	Repo   DirectoryStore
	Report *pdf.ReportGenerator
}

func NewDirectoryService(repo DirectoryStore, report *pdf.ReportGenerator) *DirectoryService {
	return &DirectoryService{Repo: repo, Report: report}
}

func (s *DirectoryService) List(ctx context.Context, limit, offset int) ([]*models.DirectoryEntry, error) {
	return s.Repo.List(ctx, limit, offset)
}

func (s *DirectoryService) Get(ctx context.Context, id string) (*models.DirectoryEntry, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

func (s *DirectoryService) Add(ctx context.Context, name string) (*models.DirectoryEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.Repo.Create(ctx, uuid.NewString(), name)
}

func (s *DirectoryService) Rename(ctx context.Context, id, name string) (*models.DirectoryEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	e, err := s.Repo.Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

func (s *DirectoryService) Remove(ctx context.Context, id string) error {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

// ExportPDF renders the whole directory.
func (s *DirectoryService) ExportPDF(ctx context.Context) ([]byte, error) {
	entries, err := s.Repo.List(ctx, maxReportEntries, 0)
	if err != nil {
		return nil, err
	}
	return s.Report.DirectoryReportBytes(entries, time.Now())
}
