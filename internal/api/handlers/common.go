package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/auth"
	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields"`
}

// ListResponse wraps a page with the viewer's create capability.
type ListResponse[T any] struct {
	*service.Page[T]
	CanManage bool `json:"can_manage"`
}

// DetailResponse wraps a record with the viewer's edit capability.
type DetailResponse[T any] struct {
	Data    T    `json:"data"`
	CanEdit bool `json:"can_edit"`
}

// handleServiceError maps service-layer errors to HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	if errors.Is(err, service.ErrForbidden) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action"})
		return
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  "The given data was invalid",
			Fields: validationErr.Fields,
		})
		return
	}
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: conflictErr.Message})
		return
	}
	if errors.Is(err, models.ErrDataIntegrity) {
		slog.Error("data integrity violation", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	slog.Error("unhandled service error", "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// getViewer returns the authenticated user, or nil for anonymous visitors.
func getViewer(c *gin.Context) *models.User {
	user, err := auth.UserFromContext(c)
	if err != nil {
		return nil
	}
	return user
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}

func listParams(c *gin.Context) service.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return service.ListParams{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
