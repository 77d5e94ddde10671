package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/middleware"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/service/doctor"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Add(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	created, err := h.service.Add(c.Request.Context(), middleware.SubjectID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, middleware.SubjectID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, updated)
}

func (h *Handler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	if err := h.service.Remove(c.Request.Context(), id, middleware.SubjectID(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("photo file is required", err))
		return
	}

	if err := h.service.UpdatePhoto(c.Request.Context(), id, middleware.SubjectID(c), header); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) ListOwn(c *gin.Context) {
	doctors, err := h.service.ListByHospital(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, doctors)
}

func (h *Handler) ListBookable(c *gin.Context) {
	doctors, err := h.service.ListBookable(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, doctors)
}

// RegisterRoutes mounts patient-facing doctor discovery
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListBookable)
		doctors.GET("/:id", h.Get)
	}
}

// RegisterHospitalRoutes mounts roster management for the hospital role
func (h *Handler) RegisterHospitalRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/hospital/doctors")
	{
		doctors.POST("", h.Add)
		doctors.GET("", h.ListOwn)
		doctors.PUT("/:id", h.Update)
		doctors.DELETE("/:id", h.Remove)
		doctors.POST("/:id/photo", h.UploadPhoto)
	}
}
