package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medq/hospital-api/internal/middleware"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/service/hospital"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/httputil"
)

type Handler struct {
	service *hospital.Service
}

func NewHandler(service *hospital.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) GetProfile(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("photo file is required", err))
		return
	}

	actorID := middleware.SubjectID(c)
	if err := h.service.UpdatePhoto(c.Request.Context(), actorID, actorID, header); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

// RegisterPublicRoutes mounts hospital self-registration
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/hospitals", h.Register)
}

// RegisterRoutes mounts routes requiring the hospital role
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospital")
	{
		hospitals.GET("/profile", h.GetProfile)
		hospitals.POST("/photo", h.UploadPhoto)
	}
}
