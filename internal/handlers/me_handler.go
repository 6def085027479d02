package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"

	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/middleware"
)

type MeHandler struct {
	users   UserStore
	devices DeviceStore
}

func NewMeHandler(users UserStore, devices DeviceStore) *MeHandler {
	return &MeHandler{users: users, devices: devices}
}

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// RegisterDevice stores an Expo push token for the current user.
func (h *MeHandler) RegisterDevice(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if _, err := expo.NewExponentPushToken(req.Token); err != nil {
		httperr.BadRequest(c, "invalid_push_token", "Not an Expo push token.")
		return
	}

	if err := h.devices.RegisterDevice(c.Request.Context(), *userID, req.Token); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
