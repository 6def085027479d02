package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barbershop-appointments/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves unauthenticated booking. Bookings made here are
// walk-ins that stay pending until staff acts on them.
type PublicHandler struct {
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	services     ServiceCatalog
}

func NewPublicHandler(
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	services ServiceCatalog,
) *PublicHandler {
	return &PublicHandler{
		availability: availability,
		create:       create,
		services:     services,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	Date        string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime   string `json:"start_time" binding:"required"` // HH:MM[:SS]
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.services.ListServices(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(services))
	for _, s := range services {
		out = append(out, gin.H{
			"id":       s.ID,
			"name":     s.Name,
			"duration": s.Duration,
			"price":    s.Price,
		})
	}

	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	availability(c, h.availability)
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	client, err := domain.ResolveClient(nil, &domain.WalkInClient{
		Name:  req.ClientName,
		Phone: req.ClientPhone,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Client:    client,
		Date:      req.Date,
		StartTime: req.StartTime,
		Pending:   true,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"date":       ap.DateString(),
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	})
}
