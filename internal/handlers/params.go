package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-appointments/internal/audit"
	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// --------------------------------------------------
// Stores used by the non-scheduling handlers
// --------------------------------------------------

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type DeviceStore interface {
	RegisterDevice(ctx context.Context, userID uint, token string) error
}

type ServiceCatalog interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

type AuditReader interface {
	ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

// --------------------------------------------------
// Params
// --------------------------------------------------

func appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.FromError(c, httperr.ErrValidation("invalid_appointment_id"))
		return uuid.Nil, false
	}
	return id, true
}

// queryUint reads a required positive integer query parameter.
func queryUint(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+key, key+" must be a positive integer.")
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
