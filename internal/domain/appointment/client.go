package appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/barbershop-appointments/internal/httperr"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

// ClientRef is either a RegisteredClient or a WalkInClient.
type ClientRef interface {
	isClientRef()
	Validate() error
}

type RegisteredClient struct {
	ClientID uint
}

type WalkInClient struct {
	Name  string
	Phone string
}

func (RegisteredClient) isClientRef() {}
func (WalkInClient) isClientRef()     {}

func (r RegisteredClient) Validate() error {
	if r.ClientID == 0 {
		return httperr.ErrValidation("missing_client")
	}
	return nil
}

func (w WalkInClient) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(w.Name))
	if n < 2 || n > 50 {
		return httperr.ErrValidation("invalid_walk_in_name")
	}
	if w.Phone == "" {
		return nil
	}
	if len(w.Phone) != 10 {
		return httperr.ErrValidation("invalid_walk_in_phone")
	}
	for _, r := range w.Phone {
		if r < '0' || r > '9' {
			return httperr.ErrValidation("invalid_walk_in_phone")
		}
	}
	return nil
}

// ResolveClient turns the two optional transport fields into a ClientRef,
// rejecting the both-present and both-absent shapes.
func ResolveClient(clientID *uint, walkIn *WalkInClient) (ClientRef, error) {
	switch {
	case clientID != nil && walkIn != nil:
		return nil, httperr.ErrValidation("ambiguous_client")
	case clientID != nil:
		ref := RegisteredClient{ClientID: *clientID}
		return ref, ref.Validate()
	case walkIn != nil:
		ref := WalkInClient{Name: strings.TrimSpace(walkIn.Name), Phone: walkIn.Phone}
		return ref, ref.Validate()
	}
	return nil, httperr.ErrValidation("missing_client")
}

// ApplyClient writes the variant onto the persistence columns.
func ApplyClient(ap *models.Appointment, ref ClientRef) {
	switch c := ref.(type) {
	case RegisteredClient:
		id := c.ClientID
		ap.ClientID = &id
		ap.Client = nil
		ap.TempClientName = ""
		ap.TempClientPhone = ""
	case WalkInClient:
		ap.ClientID = nil
		ap.Client = nil
		ap.TempClientName = c.Name
		ap.TempClientPhone = c.Phone
	}
}

// ClientOf reads the variant back from a stored appointment.
func ClientOf(ap *models.Appointment) ClientRef {
	if ap.ClientID != nil {
		return RegisteredClient{ClientID: *ap.ClientID}
	}
	return WalkInClient{Name: ap.TempClientName, Phone: ap.TempClientPhone}
}
