package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	FromError(c, err)

	var body HTTPError
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr, body
}

func TestFromError_StatusByKind(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   Kind
	}{
		{ErrValidation("invalid_date"), http.StatusBadRequest, KindValidation},
		{ErrNotFound("barber_not_found"), http.StatusNotFound, KindNotFound},
		{ErrConflict("time_conflict", nil), http.StatusConflict, KindConflict},
		{ErrState("invalid_state"), http.StatusConflict, KindStateTransition},
		{fmt.Errorf("wrapped: %w", ErrNotFound("service_not_found")), http.StatusNotFound, KindNotFound},
	}

	for _, tt := range tests {
		rr, body := render(t, tt.err)
		if rr.Code != tt.status || body.Kind != tt.kind {
			t.Errorf("%v: got %d/%s, want %d/%s", tt.err, rr.Code, body.Kind, tt.status, tt.kind)
		}
		if body.Message == "" {
			t.Errorf("%v: empty message", tt.err)
		}
	}
}

func TestFromError_UnknownIs500(t *testing.T) {
	rr, body := render(t, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError || body.Code != "internal_error" {
		t.Fatalf("got %d %+v", rr.Code, body)
	}
}

func TestFromError_CarriesConflicts(t *testing.T) {
	_, body := render(t, ErrConflict("time_conflict", []Conflict{
		{AppointmentID: "a", StartTime: "10:00:00", EndTime: "11:00:00"},
	}))

	if len(body.Conflicts) != 1 || body.Conflicts[0].AppointmentID != "a" {
		t.Fatalf("conflicts = %+v", body.Conflicts)
	}
}

func TestIsExclusionConflict(t *testing.T) {
	pg := &pgconn.PgError{Code: "23P01"}

	if !IsExclusionConflict(fmt.Errorf("insert: %w", pg)) {
		t.Error("23P01 not detected")
	}
	if IsExclusionConflict(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation reported as exclusion")
	}
	if IsExclusionConflict(errors.New("other")) {
		t.Error("plain error reported as exclusion")
	}
}
