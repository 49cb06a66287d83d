package service

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/dto"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
)

type sectionRepository interface {
	List(ctx context.Context) ([]models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	UpdateCode(ctx context.Context, id int64, code string) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
}

// SectionService coordinates section operations.
type SectionService struct {
	repo      sectionRepository
	audit     AuditRecorder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs SectionService. cache may be nil.
func NewSectionService(repo sectionRepository, audit AuditRecorder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns all sections ordered by id, served from cache when enabled.
func (s *SectionService) List(ctx context.Context) ([]models.Section, error) {
	var cached []models.Section
	if s.cache.Get(ctx, cacheKeySections, &cached) {
		return cached, nil
	}
	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "Section not found", "Failed to load sections")
	}
	s.cache.Set(ctx, cacheKeySections, sections)
	return sections, nil
}

// Create validates and inserts a section.
func (s *SectionService) Create(ctx context.Context, actor models.AdminUser, in dto.SectionInput) (*models.Section, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	section := &models.Section{Code: in.Code}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, storeError(err, "Section not found", "Failed to create section")
	}
	s.cache.Invalidate(ctx, cacheKeySections)
	s.audit.Record(ctx, actor.ID, models.TableSections, models.AuditInsert, formatID(section.ID), in)
	return section, nil
}

// Update renames a section.
func (s *SectionService) Update(ctx context.Context, actor models.AdminUser, id int64, in dto.SectionInput) (*models.Section, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	section, err := s.repo.UpdateCode(ctx, id, in.Code)
	if err != nil {
		return nil, storeError(err, "Section not found", "Failed to update section")
	}
	s.cache.Invalidate(ctx, cacheKeySections)
	s.audit.Record(ctx, actor.ID, models.TableSections, models.AuditUpdate, formatID(id), in)
	return section, nil
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, actor models.AdminUser, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Section not found", "Failed to delete section")
	}
	s.cache.Invalidate(ctx, cacheKeySections)
	s.audit.Record(ctx, actor.ID, models.TableSections, models.AuditDelete, formatID(id), nil)
	return nil
}

func (s *SectionService) check(in *dto.SectionInput) error {
	in.Normalize()
	if err := s.validator.Struct(in); err != nil {
		return invalid(validation.Issues(err))
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
