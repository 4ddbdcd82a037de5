package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"campus-ops/internal/api"
	"campus-ops/internal/db"
	"campus-ops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// cacheInvalidator lets the handler drop the resolver's alias snapshot
// after alias writes, so resolution picks up changes immediately.
type cacheInvalidator interface {
	Invalidate()
}

// ResourceHandler handles resource and alias management
type ResourceHandler struct {
	resources *repository.ResourceRepository
	resolver  cacheInvalidator
	validator *validator.Validate
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources *repository.ResourceRepository, resolver cacheInvalidator) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		resolver:  resolver,
		validator: validator.New(),
	}
}

// ListResources returns all active resources
// @Summary List resources
// @Tags resources
// @Produce json
// @Success 200 {object} api.APIResponse{data=[]repository.Resource}
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c *gin.Context) {
	resources, err := h.resources.ListActive(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, resources)
}

// GetResource returns a single resource
// @Summary Get resource
// @Tags resources
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} api.APIResponse{data=repository.Resource}
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /resources/{id} [get]
func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		api.SendValidationError(c, "Invalid resource ID", err.Error())
		return
	}

	resource, err := h.resources.GetByID(c.Request.Context(), int32(id))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Resource")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, resource)
}

// CreateResourceRequest creates a bookable resource.
// @Description Request body for resource creation
type CreateResourceRequest struct {
	Name         string  `json:"name" validate:"required,max=255" example:"Beit Midrash"`
	Abbreviation *string `json:"abbreviation,omitempty" validate:"omitempty,max=50"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	ForeignID    *int32  `json:"foreign_id,omitempty"`
	Capacity     *int32  `json:"capacity,omitempty" validate:"omitempty,min=1"`
}

// CreateResource creates a resource
// @Summary Create resource
// @Tags resources
// @Accept json
// @Produce json
// @Param request body CreateResourceRequest true "Resource to create"
// @Success 201 {object} api.APIResponse{data=repository.Resource}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Router /resources [post]
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	resource, err := h.resources.Create(c.Request.Context(), repository.CreateResourceRequest{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		Description:  req.Description,
		ForeignID:    req.ForeignID,
		Capacity:     req.Capacity,
	})
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	h.resolver.Invalidate()
	api.SendSuccess(c, http.StatusCreated, resource)
}

// ListAliases returns all resource aliases
// @Summary List resource aliases
// @Tags resources
// @Produce json
// @Success 200 {object} api.APIResponse{data=[]repository.ResourceAlias}
// @Router /resources/aliases [get]
func (h *ResourceHandler) ListAliases(c *gin.Context) {
	aliases, err := h.resources.ListAliases(c.Request.Context())
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, aliases)
}

// CreateAliasRequest maps a free-text synonym to a resource.
// @Description Request body for alias creation
type CreateAliasRequest struct {
	Alias      string `json:"alias" validate:"required,max=255" example:"BM"`
	ResourceID int32  `json:"resource_id" validate:"required,min=1"`
}

// CreateAlias creates a resource alias
// @Summary Create resource alias
// @Description Map a free-text location synonym to a resource. Invalidates the resolver cache.
// @Tags resources
// @Accept json
// @Produce json
// @Param request body CreateAliasRequest true "Alias to create"
// @Success 201 {object} api.APIResponse{data=repository.ResourceAlias}
// @Failure 400 {object} api.APIResponse{error=api.APIError}
// @Failure 409 {object} api.APIResponse{error=api.APIError}
// @Router /resources/aliases [post]
func (h *ResourceHandler) CreateAlias(c *gin.Context) {
	var req CreateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	alias, err := h.resources.CreateAlias(c.Request.Context(), req.Alias, req.ResourceID)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			api.SendConflict(c, "Alias already exists")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	h.resolver.Invalidate()
	api.SendSuccess(c, http.StatusCreated, alias)
}

// DeleteAlias removes a resource alias
// @Summary Delete resource alias
// @Tags resources
// @Produce json
// @Param id path string true "Alias ID"
// @Success 200 {object} api.APIResponse
// @Failure 404 {object} api.APIResponse{error=api.APIError}
// @Router /resources/aliases/{id} [delete]
func (h *ResourceHandler) DeleteAlias(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid alias ID", err.Error())
		return
	}

	if err := h.resources.DeleteAlias(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Alias")
			return
		}
		api.SendInternalError(c, err.Error())
		return
	}

	h.resolver.Invalidate()
	api.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
