package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/dto"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/response"
)

type classService interface {
	List(ctx context.Context, filter models.ClassFilter) (*models.ClassPage, error)
	Get(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, actor models.AdminUser, req dto.ClassCreateRequest) (*models.Class, error)
	Update(ctx context.Context, actor models.AdminUser, id int64, req dto.ClassPatchRequest) (*models.Class, error)
	Delete(ctx context.Context, actor models.AdminUser, id int64) error
}

// ClassHandler exposes class CRUD endpoints.
type ClassHandler struct {
	service classService
	logger  *zap.Logger
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{service: svc, logger: logger}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param section_id query string false "Section id or all"
// @Param day query string false "Day 1-7, weekday name or all"
// @Param page query int false "Page (default 1, max 10737419)"
// @Param limit query int false "Page size (default 100, max 200)"
// @Success 200 {object} models.ClassPage
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	filter, err := classFilterFromQuery(c)
	if err != nil {
		fail(c, h.logger, "list classes", err)
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, h.logger, "list classes", err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Get godoc
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} models.Class
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, "get class", err)
		return
	}
	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, "get class", err)
		return
	}
	response.JSON(c, http.StatusOK, class)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.ClassCreateRequest true "Class payload"
// @Success 201 {object} models.Class
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.ClassCreateRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, "create class", err)
		return
	}
	class, err := h.service.Create(c.Request.Context(), currentAdmin(c), req)
	if err != nil {
		fail(c, h.logger, "create class", err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Patch class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body dto.ClassPatchView true "Fields to change; null clears nullable fields"
// @Success 200 {object} models.Class
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /classes/{id} [patch]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, "update class", err)
		return
	}
	var req dto.ClassPatchRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, "update class", err)
		return
	}
	class, err := h.service.Update(c.Request.Context(), currentAdmin(c), id, req)
	if err != nil {
		fail(c, h.logger, "update class", err)
		return
	}
	response.JSON(c, http.StatusOK, class)
}

// Delete godoc
// @Summary Delete class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.OK
// @Failure 404 {object} response.ErrorBody
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, "delete class", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), currentAdmin(c), id); err != nil {
		fail(c, h.logger, "delete class", err)
		return
	}
	response.Ack(c)
}

func classFilterFromQuery(c *gin.Context) (models.ClassFilter, error) {
	var filter models.ClassFilter
	var issues []validation.FieldIssue

	if raw := strings.TrimSpace(c.Query("section_id")); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			issues = append(issues, validation.FieldIssue{Path: "section_id", Message: "Section id must be > 0"})
		} else {
			filter.SectionID = &id
		}
	}
	if raw := strings.TrimSpace(c.Query("day")); raw != "" && raw != "all" {
		day, err := dto.ParseWeekday(raw)
		if err != nil || day < 1 || day > 7 {
			issues = append(issues, validation.FieldIssue{Path: "day", Message: "Day must be 1-7 or a weekday name"})
		} else {
			d := day.Int()
			filter.Day = &d
		}
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page > models.MaxClassPage {
			issues = append(issues, validation.FieldIssue{Path: "page", Message: fmt.Sprintf("Page must be a number up to %d", models.MaxClassPage)})
		} else {
			filter.Page = page
		}
	}
	if len(issues) > 0 {
		return filter, appErrors.WithDetails(appErrors.ErrValidation, issues)
	}

	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	return filter.Normalize(), nil
}
