package appointment

import "github.com/BruksfildServices01/barbershop-appointments/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
	StatusConvertedToSale Status = "converted_to_sale"
)

// OpenStatuses are the states an appointment can still leave.
var OpenStatuses = []Status{StatusPending, StatusConfirmed}

// FreedStatuses release their time window back to the grid.
var FreedStatuses = []Status{StatusCancelled, StatusExpired}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted,
		StatusCancelled, StatusExpired, StatusConvertedToSale:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusExpired, StatusConvertedToSale:
		return true
	}
	return false
}

// BlocksTime reports whether the appointment still occupies its window.
func (s Status) BlocksTime() bool {
	return s != StatusCancelled && s != StatusExpired
}

// ===============================
// Validations
// ===============================

// CanTransition checks a move from current to next. Open states may move
// anywhere except back to pending; terminal states never move.
func CanTransition(current, next Status) error {
	if !current.Valid() || !next.Valid() {
		return httperr.ErrState("invalid_state")
	}
	if current.IsTerminal() {
		return httperr.ErrState("invalid_state")
	}
	if next == StatusPending && current != StatusPending {
		return httperr.ErrState("invalid_state")
	}
	return nil
}

// InitialStatus is used by the staff booking flow.
func InitialStatus() Status {
	return StatusConfirmed
}

func StringsOf(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
