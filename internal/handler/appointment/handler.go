package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/middleware"
	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/service/appointment"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	created, err := h.service.Submit(c.Request.Context(), middleware.SubjectID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) ListOwn(c *gin.Context) {
	requests, err := h.service.ListForPatient(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, requests)
}

func (h *Handler) ListForHospital(c *gin.Context) {
	var status *model.AppointmentStatus
	if raw := c.Query("status"); raw != "" {
		parsed := model.AppointmentStatus(raw)
		status = &parsed
	}

	requests, err := h.service.ListForHospital(c.Request.Context(), middleware.SubjectID(c), status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, requests)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	approved, err := h.service.Approve(c.Request.Context(), id, middleware.SubjectID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, approved)
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	var req model.RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	rejected, err := h.service.Reject(c.Request.Context(), id, middleware.SubjectID(c), req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, rejected)
}

// RegisterPatientRoutes mounts submission and history for the patient role
func (h *Handler) RegisterPatientRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Submit)
		appointments.GET("", h.ListOwn)
	}
}

// RegisterHospitalRoutes mounts triage for the hospital role
func (h *Handler) RegisterHospitalRoutes(r *gin.RouterGroup) {
	r.GET("/hospital/appointments", h.ListForHospital)

	appointments := r.Group("/appointments")
	{
		appointments.POST("/:id/approve", h.Approve)
		appointments.POST("/:id/reject", h.Reject)
	}
}
