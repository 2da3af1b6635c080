package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/orgdesa/orgdesa/internal/metrics"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"github.com/orgdesa/orgdesa/internal/service"
)

type DocumentHandler struct {
	svc          *service.DocumentService
	policy       *policy.Policy
	documentsDir string
	metrics      *metrics.Metrics
}

func NewDocumentHandler(svc *service.DocumentService, p *policy.Policy, documentsDir string, m *metrics.Metrics) *DocumentHandler {
	return &DocumentHandler{svc: svc, policy: p, documentsDir: documentsDir, metrics: m}
}

// ListDocuments godoc
// @Summary List archive documents
// @Description Anonymous visitors see public documents, signed-in users also see members-only ones, admins see everything.
// @Tags documents
// @Produce json
// @Param category query string false "Filter by category"
// @Param search query string false "Search title, description and filename"
// @Param page query int false "Page number"
// @Success 200 {object} ListResponse[models.DocumentArchive]
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	viewer := getViewer(c)
	page, err := h.svc.List(c.Request.Context(), viewer, listParams(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[models.DocumentArchive]{Page: page, CanManage: h.policy.CanManage(viewer)})
}

// ListCategories godoc
// @Summary List document categories visible to the caller
// @Tags documents
// @Produce json
// @Success 200 {array} string
// @Router /documents/categories [get]
func (h *DocumentHandler) ListCategories(c *gin.Context) {
	cats, err := h.svc.Categories(c.Request.Context(), getViewer(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GetDocument godoc
// @Summary Get an archive document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} DetailResponse[models.DocumentArchive]
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewer := getViewer(c)
	d, err := h.svc.Get(c.Request.Context(), viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DetailResponse[*models.DocumentArchive]{Data: d, CanEdit: h.policy.CanEdit(viewer)})
}

// DownloadDocument godoc
// @Summary Download an archive document
// @Description Counts the download and streams the stored file.
// @Tags documents
// @Produce octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewer := getViewer(c)
	ctx := c.Request.Context()

	d, err := h.svc.Get(ctx, viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path := h.resolve(d.FilePath)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		slog.Warn("Document file missing", "document_id", d.ID, "path", path)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "File not found"})
		return
	}

	d, err = h.svc.Download(ctx, viewer, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.metrics.RecordDownload(string(d.Visibility))

	c.FileAttachment(path, downloadName(d))
}

// resolve maps a stored relative path under the documents root. Leading
// slashes and ".." segments cannot escape the root.
func (h *DocumentHandler) resolve(stored string) string {
	return filepath.Join(h.documentsDir, filepath.Clean("/"+stored))
}

// downloadName builds an ASCII file name from the title, keeping the
// original extension.
func downloadName(d *models.DocumentArchive) string {
	ext := strings.ToLower(filepath.Ext(d.Filename))
	if ext == "" && d.FileType != "" {
		ext = "." + d.FileType
	}
	name := slug.Make(d.Title)
	if name == "" {
		name = "document"
	}
	return name + ext
}

// CreateDocument godoc
// @Summary Add a document to the archive
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param document body service.CreateDocumentRequest true "Document details"
// @Success 201 {object} models.DocumentArchive
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.Create(c.Request.Context(), getViewer(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// UpdateDocument godoc
// @Summary Update document metadata
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param document body service.UpdateDocumentRequest true "Document metadata"
// @Success 200 {object} models.DocumentArchive
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.Update(c.Request.Context(), getViewer(c), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DeleteDocument godoc
// @Summary Delete an archive document
// @Tags documents
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
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
