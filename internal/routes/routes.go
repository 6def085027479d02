package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/handlers"
	"github.com/BruksfildServices01/barbershop-appointments/internal/middleware"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-appointments/internal/usecase/appointment"
)

// Store is everything the HTTP surface reads and writes. Both the gorm and
// the memory repositories satisfy it.
type Store interface {
	domain.Repository
	handlers.UserStore
	handlers.DeviceStore
	handlers.ServiceCatalog
	handlers.AuditReader
}

type Deps struct {
	Config  *config.Config
	Store   Store
	Clock   timezone.Clock
	Effects ucAppointment.Effects
	Rules   domain.SlotRules
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	// ======================================================
	// USE CASES
	// ======================================================
	create := ucAppointment.NewCreateAppointment(d.Store, d.Clock, d.Effects)
	availability := ucAppointment.NewGetAvailability(d.Store, d.Clock, d.Effects.Cache, d.Rules)

	appointmentUC := handlers.AppointmentUseCases{
		Create:       create,
		Update:       ucAppointment.NewUpdateAppointment(d.Store, d.Clock, d.Effects),
		Confirm:      ucAppointment.NewConfirmAppointment(d.Store, d.Clock, d.Effects),
		Cancel:       ucAppointment.NewCancelAppointment(d.Store, d.Clock, d.Effects),
		Expire:       ucAppointment.NewExpireAppointment(d.Store, d.Clock, d.Effects),
		ConvertSale:  ucAppointment.NewConvertToSale(d.Store, d.Clock, d.Effects),
		Delete:       ucAppointment.NewDeleteAppointment(d.Store, d.Effects),
		Availability: availability,
		Schedule:     ucAppointment.NewGetDailySchedule(d.Store, d.Clock),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Store, d.Config)
	meHandler := handlers.NewMeHandler(d.Store, d.Store)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC)
	publicHandler := handlers.NewPublicHandler(availability, create, d.Store)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Store, d.Clock.Now().Location())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF
		// ------------------------------
		staff := api.Group("/")
		staff.Use(
			middleware.AuthMiddleware(d.Config),
			middleware.RequireRole(models.RoleAdmin, models.RoleBarber),
		)
		{
			staff.GET("/me", meHandler.GetMe)
			staff.POST("/me/devices", meHandler.RegisterDevice)

			staff.POST("/appointments", appointmentHandler.Create)
			staff.GET("/appointments/availability", appointmentHandler.Availability)
			staff.PATCH("/appointments/:id", appointmentHandler.Update)
			staff.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			staff.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			staff.PATCH("/appointments/:id/expire", appointmentHandler.Expire)

			staff.GET("/schedule", appointmentHandler.Schedule)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(
			middleware.AuthMiddleware(d.Config),
			middleware.RequireRole(models.RoleAdmin),
		)
		{
			admin.PATCH("/appointments/:id/sale", appointmentHandler.ConvertToSale)
			admin.DELETE("/appointments/:id", appointmentHandler.Delete)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
