package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesa/orgdesa/internal/service"
)

type OrganizationHandler struct {
	svc  *service.OrganizationService
	home *service.HomeService
}

func NewOrganizationHandler(svc *service.OrganizationService, home *service.HomeService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, home: home}
}

// GetOrganization godoc
// @Summary Get the organization profile
// @Description Returns null data until an admin has saved the profile.
// @Tags organization
// @Produce json
// @Success 200 {object} DetailResponse[models.OrganizationProfile]
// @Router /organization [get]
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	viewer := getViewer(c)
	p, err := h.svc.Show(c.Request.Context(), viewer)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p, "can_edit": viewer.IsAdmin()})
}

// UpdateOrganization godoc
// @Summary Update the organization profile (admin only)
// @Tags organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param profile body service.OrganizationRequest true "Profile"
// @Success 200 {object} models.OrganizationProfile
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /organization [put]
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	var req service.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), getViewer(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetHome godoc
// @Summary Landing page summary
// @Description Recent activities, published minutes, public documents and global counters.
// @Tags home
// @Produce json
// @Success 200 {object} service.HomeSummary
// @Router /home [get]
func (h *OrganizationHandler) GetHome(c *gin.Context) {
	sum, err := h.home.Summary(c.Request.Context(), getViewer(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
