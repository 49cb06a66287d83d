package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/dto"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/pkg/response"
)

type sectionService interface {
	List(ctx context.Context) ([]models.Section, error)
	Create(ctx context.Context, actor models.AdminUser, in dto.SectionInput) (*models.Section, error)
	Update(ctx context.Context, actor models.AdminUser, id int64, in dto.SectionInput) (*models.Section, error)
	Delete(ctx context.Context, actor models.AdminUser, id int64) error
}

// SectionHandler exposes section CRUD endpoints.
type SectionHandler struct {
	service sectionService
	logger  *zap.Logger
}

// NewSectionHandler constructs a section handler.
func NewSectionHandler(svc sectionService, logger *zap.Logger) *SectionHandler {
	return &SectionHandler{service: svc, logger: logger}
}

// List godoc
// @Summary List sections
// @Tags Sections
// @Produce json
// @Success 200 {array} models.Section
// @Failure 401 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.service.List(c.Request.Context())
	if err != nil {
		fail(c, h.logger, "list sections", err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

// Create godoc
// @Summary Create section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body dto.SectionInput true "Section payload"
// @Success 201 {object} models.Section
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var in dto.SectionInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, "create section", err)
		return
	}
	section, err := h.service.Create(c.Request.Context(), currentAdmin(c), in)
	if err != nil {
		fail(c, h.logger, "create section", err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Rename section
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body dto.SectionInput true "Section payload"
// @Success 200 {object} models.Section
// @Failure 404 {object} response.ErrorBody
// @Router /sections/{id} [patch]
func (h *SectionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, "update section", err)
		return
	}
	var in dto.SectionInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, h.logger, "update section", err)
		return
	}
	section, err := h.service.Update(c.Request.Context(), currentAdmin(c), id, in)
	if err != nil {
		fail(c, h.logger, "update section", err)
		return
	}
	response.JSON(c, http.StatusOK, section)
}

// Delete godoc
// @Summary Delete section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.OK
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, h.logger, "delete section", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), currentAdmin(c), id); err != nil {
		fail(c, h.logger, "delete section", err)
		return
	}
	response.Ack(c)
}
