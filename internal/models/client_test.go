package models

import "testing"

func TestClientContactEmail(t *testing.T) {
	c := Client{Name: "Carl", Email: "carl@mail.test"}
	if got := c.ContactEmail(); got != "carl@mail.test" {
		t.Fatalf("email = %q", got)
	}

	c.EmailOptOut = true
	if got := c.ContactEmail(); got != "" {
		t.Fatalf("opted out email = %q", got)
	}
}

func TestAppointmentClientName(t *testing.T) {
	walkIn := Appointment{TempClientName: "Dora"}
	if walkIn.ClientName() != "Dora" {
		t.Errorf("walk-in name = %q", walkIn.ClientName())
	}

	registered := Appointment{Client: &Client{Name: "Carl"}, TempClientName: "ignored"}
	if registered.ClientName() != "Carl" {
		t.Errorf("registered name = %q", registered.ClientName())
	}
}
