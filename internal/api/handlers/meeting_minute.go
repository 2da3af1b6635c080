package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/service"
)

type MeetingMinuteHandler struct {
	svc    *service.MeetingMinuteService
	policy *policy.Policy
}

func NewMeetingMinuteHandler(svc *service.MeetingMinuteService, p *policy.Policy) *MeetingMinuteHandler {
	return &MeetingMinuteHandler{svc: svc, policy: p}
}

// ListMeetingMinutes godoc
// @Summary List meeting minutes
// @Description Visitors, members and content creators only see published minutes; the status filter applies to editors.
// @Tags meeting-minutes
// @Produce json
// @Param status query string false "Filter by status (editors only)" Enums(draft, published, archived)
// @Param search query string false "Search title, content and location"
// @Param page query int false "Page number"
// @Success 200 {object} ListResponse[models.MeetingMinute]
// @Router /meeting-minutes [get]
func (h *MeetingMinuteHandler) ListMeetingMinutes(c *gin.Context) {
	viewer := getViewer(c)
	page, err := h.svc.List(c.Request.Context(), viewer, listParams(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[models.MeetingMinute]{Page: page, CanManage: h.policy.CanManage(viewer)})
}

// GetMeetingMinute godoc
// @Summary Get a meeting minute
// @Tags meeting-minutes
// @Produce json
// @Param id path int true "Meeting minute ID"
// @Success 200 {object} DetailResponse[models.MeetingMinute]
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /meeting-minutes/{id} [get]
func (h *MeetingMinuteHandler) GetMeetingMinute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewer := getViewer(c)
	m, err := h.svc.Get(c.Request.Context(), viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DetailResponse[*models.MeetingMinute]{Data: m, CanEdit: h.policy.CanEdit(viewer)})
}

// CreateMeetingMinute godoc
// @Summary Record a meeting minute
// @Tags meeting-minutes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param minute body service.MeetingMinuteRequest true "Meeting minute"
// @Success 201 {object} models.MeetingMinute
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /meeting-minutes [post]
func (h *MeetingMinuteHandler) CreateMeetingMinute(c *gin.Context) {
	var req service.MeetingMinuteRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), getViewer(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMeetingMinute godoc
// @Summary Update a meeting minute
// @Tags meeting-minutes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Meeting minute ID"
// @Param minute body service.MeetingMinuteRequest true "Meeting minute"
// @Success 200 {object} models.MeetingMinute
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /meeting-minutes/{id} [put]
func (h *MeetingMinuteHandler) UpdateMeetingMinute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.MeetingMinuteRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), getViewer(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMeetingMinute godoc
// @Summary Delete a meeting minute
// @Tags meeting-minutes
// @Security BearerAuth
// @Param id path int true "Meeting minute ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /meeting-minutes/{id} [delete]
func (h *MeetingMinuteHandler) DeleteMeetingMinute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), getViewer(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
