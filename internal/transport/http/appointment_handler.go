package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
	apptsvc "github.com/Dibyajyoti06/CareConnect/internal/service/appointment"
	"github.com/Dibyajyoti06/CareConnect/pkg/obs"
)

type AppointmentHandler struct {
	svc     *apptsvc.Service
	metrics *obs.Metrics
}

func NewAppointmentHandler(svc *apptsvc.Service, metrics *obs.Metrics) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, metrics: metrics}
}

// POST /api/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var in struct {
		AppointmentItems []domain.AppointmentItem `json:"appointmentItems"`
		Location         domain.Location          `json:"location"`
		Time             time.Time                `json:"time"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, apperr.Validationf("malformed request body"))
		return
	}

	a, err := h.svc.Book(c.Request.Context(), userID(c), apptsvc.BookInput{
		Items:    in.AppointmentItems,
		Time:     in.Time,
		Location: in.Location,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	h.metrics.AppointmentsBooked.Inc()
	respond(c, http.StatusCreated, "Appointment booked successfully", a)
}

// GET /api/appointments/mine
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	out, err := h.svc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Appointments fetched successfully", out)
}

// GET /api/appointments (admin)
func (h *AppointmentHandler) List(c *gin.Context) {
	out, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Appointments fetched successfully", out)
}

// GET /api/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), userID(c), userRole(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Appointment fetched successfully", a)
}

// PUT /api/appointments/:id/approve (admin)
func (h *AppointmentHandler) Approve(c *gin.Context) {
	a, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Appointment approved", a)
}
