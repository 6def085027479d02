package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/dto"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-appointments/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barbershop-appointments/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Create       *ucAppointment.CreateAppointment
	Update       *ucAppointment.UpdateAppointment
	Confirm      *ucAppointment.ConfirmAppointment
	Cancel       *ucAppointment.CancelAppointment
	Expire       *ucAppointment.ExpireAppointment
	ConvertSale  *ucAppointment.ConvertToSale
	Delete       *ucAppointment.DeleteAppointment
	Availability *ucAppointment.GetAvailability
	Schedule     *ucAppointment.GetDailySchedule
}

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type WalkInRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (w *WalkInRequest) toDomain() *domain.WalkInClient {
	if w == nil {
		return nil
	}
	return &domain.WalkInClient{Name: w.Name, Phone: w.Phone}
}

type CreateAppointmentRequest struct {
	BarberID  uint           `json:"barber_id" binding:"required"`
	ServiceID uint           `json:"service_id" binding:"required"`
	ClientID  *uint          `json:"client_id"`
	WalkIn    *WalkInRequest `json:"walk_in"`
	Date      string         `json:"date" binding:"required"`
	StartTime string         `json:"start_time" binding:"required"`
	Address   string         `json:"address"`
}

type UpdateAppointmentRequest struct {
	BarberID  *uint          `json:"barber_id,omitempty"`
	ServiceID *uint          `json:"service_id,omitempty"`
	ClientID  *uint          `json:"client_id,omitempty"`
	WalkIn    *WalkInRequest `json:"walk_in,omitempty"`
	Date      *string        `json:"date,omitempty"`
	StartTime *string        `json:"start_time,omitempty"`
	Address   *string        `json:"address,omitempty"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type ConvertToSaleRequest struct {
	SaleID uint `json:"sale_id" binding:"required"`
}

// ======================================================
// WRITES
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	client, err := domain.ResolveClient(req.ClientID, req.WalkIn.toDomain())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ActorID:   middleware.UserID(c),
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Client:    client,
		Date:      req.Date,
		StartTime: req.StartTime,
		Address:   req.Address,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		ActorID:   middleware.UserID(c),
		ID:        id,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Address:   req.Address,
	}

	if req.ClientID != nil || req.WalkIn != nil {
		client, err := domain.ResolveClient(req.ClientID, req.WalkIn.toDomain())
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		in.Client = client
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.uc.Confirm.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	// body is optional
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
			return
		}
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Expire(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.uc.Expire.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) ConvertToSale(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req ConvertToSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, httperr.ErrValidation("invalid_sale_id"))
		return
	}

	ap, err := h.uc.ConvertSale.Execute(c.Request.Context(), middleware.UserID(c), id, req.SaleID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// READS
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	availability(c, h.uc.Availability)
}

func (h *AppointmentHandler) Schedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.FromError(c, httperr.ErrValidation("invalid_date"))
		return
	}

	out, err := h.uc.Schedule.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// availability serves both the staff and the public route.
func availability(c *gin.Context, uc *ucAppointment.GetAvailability) {
	barberID, ok := queryUint(c, "barber_id")
	if !ok {
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}

	out, err := uc.Execute(c.Request.Context(), ucAppointment.GetAvailabilityInput{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      c.Query("date"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}
