package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/service"
)

type ActivityHandler struct {
	svc    *service.ActivityService
	policy *policy.Policy
}

func NewActivityHandler(svc *service.ActivityService, p *policy.Policy) *ActivityHandler {
	return &ActivityHandler{svc: svc, policy: p}
}

// ListActivities godoc
// @Summary List activities
// @Tags activities
// @Produce json
// @Param status query string false "Filter by status" Enums(planned, ongoing, completed, cancelled)
// @Param search query string false "Search title, description and location"
// @Param page query int false "Page number"
// @Success 200 {object} ListResponse[models.Activity]
// @Failure 500 {object} ErrorResponse
// @Router /activities [get]
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	viewer := getViewer(c)
	page, err := h.svc.List(c.Request.Context(), viewer, listParams(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[models.Activity]{Page: page, CanManage: h.policy.CanManage(viewer)})
}

// GetActivity godoc
// @Summary Get an activity with its documents
// @Tags activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} DetailResponse[models.Activity]
// @Failure 404 {object} ErrorResponse
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewer := getViewer(c)
	a, err := h.svc.Get(c.Request.Context(), viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DetailResponse[*models.Activity]{Data: a, CanEdit: h.policy.CanEdit(viewer)})
}

// CreateActivity godoc
// @Summary Create an activity
// @Tags activities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param activity body service.ActivityRequest true "Activity details"
// @Success 201 {object} models.Activity
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req service.ActivityRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.svc.Create(c.Request.Context(), getViewer(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags activities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param activity body service.ActivityRequest true "Activity details"
// @Success 200 {object} models.Activity
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ActivityRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.svc.Update(c.Request.Context(), getViewer(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Tags activities
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
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

// AttachDocument godoc
// @Summary Attach a photo, report or other file to an activity
// @Tags activities
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param document body service.ActivityDocumentRequest true "Document details"
// @Success 201 {object} models.ActivityDocument
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /activities/{id}/documents [post]
func (h *ActivityHandler) AttachDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ActivityDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.svc.AttachDocument(c.Request.Context(), getViewer(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument godoc
// @Summary Remove a file from an activity
// @Tags activities
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Param doc path int true "Activity document ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /activities/{id}/documents/{doc} [delete]
func (h *ActivityHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	docID, ok := parseID(c, "doc")
	if !ok {
		return
	}
	if err := h.svc.DeleteDocument(c.Request.Context(), getViewer(c), id, docID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
