package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Kind      Kind       `json:"kind,omitempty"`
	Code      string     `json:"error_code"`
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

var messages = map[string]string{
	"invalid_request":          "Invalid request payload.",
	"invalid_date":             "Date must be YYYY-MM-DD.",
	"invalid_time":             "Time must be HH:MM or HH:MM:SS.",
	"invalid_appointment_id":   "Invalid appointment id.",
	"missing_client":           "A registered client or a walk-in name is required.",
	"ambiguous_client":         "Provide either a registered client or a walk-in, not both.",
	"invalid_walk_in_name":     "Walk-in name must have between 2 and 50 characters.",
	"invalid_walk_in_phone":    "Walk-in phone must have exactly 10 digits.",
	"invalid_service_duration": "Service duration is invalid.",
	"outside_business_day":     "Appointment must end before midnight.",
	"in_the_past":              "Appointment start is in the past.",
	"barber_not_found":         "Barber not found.",
	"service_not_found":        "Service not found.",
	"client_not_found":         "Client not found.",
	"appointment_not_found":    "Appointment not found.",
	"time_conflict":            "That time overlaps an existing appointment.",
	"invalid_state":            "Appointment cannot move to the requested state.",
	"stale_state":              "Appointment changed state concurrently.",
	"appointment_not_editable": "Appointment is in a final state and cannot be edited.",
	"invalid_sale_id":          "A sale id is required.",
}

// FromError renders any use case error. Business errors keep their kind and
// code; everything else becomes a 500.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status := http.StatusInternalServerError
	switch be.Kind {
	case KindValidation:
		status = http.StatusBadRequest
	case KindNotFound:
		status = http.StatusNotFound
	case KindConflict, KindStateTransition:
		status = http.StatusConflict
	}

	msg, found := messages[be.Code]
	if !found {
		msg = be.Code
	}

	c.JSON(status, HTTPError{
		Kind:      be.Kind,
		Code:      be.Code,
		Message:   msg,
		Conflicts: be.Conflicts,
	})
}
