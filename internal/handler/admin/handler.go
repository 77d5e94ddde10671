package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medq/hospital-api/internal/model"
	"github.com/medq/hospital-api/internal/service/hospital"
	apperrors "github.com/medq/hospital-api/pkg/errors"
	"github.com/medq/hospital-api/pkg/httputil"
)

type Handler struct {
	hospitals *hospital.Service
}

func NewHandler(hospitals *hospital.Service) *Handler {
	return &Handler{hospitals: hospitals}
}

func (h *Handler) ListHospitals(c *gin.Context) {
	var status *model.HospitalStatus
	if raw := c.Query("status"); raw != "" {
		parsed := model.HospitalStatus(raw)
		status = &parsed
	}

	found, err := h.hospitals.List(c.Request.Context(), status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	found, err := h.hospitals.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, found)
}

func (h *Handler) ApproveHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	approved, err := h.hospitals.Approve(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, approved)
}

func (h *Handler) RejectHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	var req model.RejectHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	rejected, err := h.hospitals.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, rejected)
}

// RegisterRoutes mounts hospital vetting for the admin role
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/admin/hospitals")
	{
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.POST("/:id/approve", h.ApproveHospital)
		hospitals.POST("/:id/reject", h.RejectHospital)
	}
}
