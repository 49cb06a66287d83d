package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/dto"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, id int64, changes []models.Change) (*models.Class, error)
	Delete(ctx context.Context, id int64) error
}

// ClassService coordinates class operations.
type ClassService struct {
	repo      classRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService and registers the start/end rule on
// the validator.
func NewClassService(repo classRepository, audit AuditRecorder, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	validate.RegisterStructValidation(validation.TimeOrder, dto.ClassCreateRequest{}, dto.ClassPatchView{})
	return &ClassService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns one page of classes.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) (*models.ClassPage, error) {
	filter = filter.Normalize()
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "Class not found", "Failed to load classes")
	}
	return &models.ClassPage{Rows: rows, Count: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Get returns a single class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Class not found", "Failed to load class")
	}
	return class, nil
}

// Create validates and inserts a class.
func (s *ClassService) Create(ctx context.Context, actor models.AdminUser, req dto.ClassCreateRequest) (*models.Class, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(validation.Issues(err))
	}

	class := req.Model()
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, storeError(err, "Class not found", "Failed to create class")
	}
	s.audit.Record(ctx, actor.ID, models.TableClasses, models.AuditInsert, formatID(class.ID), req)
	return class, nil
}

// Update applies a partial update. The patch must name at least one field.
func (s *ClassService) Update(ctx context.Context, actor models.AdminUser, id int64, req dto.ClassPatchRequest) (*models.Class, error) {
	req.Normalize()
	if req.Empty() {
		return nil, invalid([]validation.FieldIssue{{Path: "", Message: "Nothing to update"}})
	}
	issues := req.NullIssues()
	if err := s.validator.Struct(req.View()); err != nil {
		issues = append(issues, validation.Issues(err)...)
	}
	if len(issues) > 0 {
		return nil, invalid(issues)
	}

	changes := req.Changes()
	class, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, storeError(err, "Class not found", "Failed to update class")
	}
	s.audit.Record(ctx, actor.ID, models.TableClasses, models.AuditUpdate, formatID(id), models.ChangeMap(changes))
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, actor models.AdminUser, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Class not found", "Failed to delete class")
	}
	s.audit.Record(ctx, actor.ID, models.TableClasses, models.AuditDelete, formatID(id), nil)
	return nil
}
