package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-appointments/internal/bootstrap"
	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/routes"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-appointments/internal/usecase/appointment"
)

const (
	adminEmail  = "admin@shop.test"
	barberEmail = "barber@shop.test"
	password    = "secret123"
	testDay     = "2026-10-19"
)

type server struct {
	t      *testing.T
	router *gin.Engine
	repo   *repository.MemoryRepository
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	if _, _, err := bootstrap.SeedAdmin(ctx, repo, config.SeedConfig{
		AdminName: "Admin", AdminEmail: adminEmail, AdminPassword: password,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	barber := &models.User{Name: "Joe", Email: barberEmail, PasswordHash: string(hash), Role: models.RoleBarber, Active: true}
	if err := repo.CreateUser(ctx, barber); err != nil {
		t.Fatalf("create barber: %v", err)
	}
	repo.AddService(models.Service{ID: 100, Name: "Haircut", Duration: "01:00:00", Price: decimal.NewFromInt(30), Active: true})

	cfg := &config.Config{JWTSecret: "test-secret"}
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Store:   repo,
		Clock:   timezone.FixedClock{T: time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)},
		Effects: ucAppointment.Effects{},
		Rules:   domain.DefaultSlotRules(),
	})

	return &server{t: t, router: r, repo: repo}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *server) login(email string) string {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	if rr.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rr, &out)
	return out.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

type errorBody struct {
	Kind      string `json:"kind"`
	Code      string `json:"error_code"`
	Conflicts []struct {
		AppointmentID string `json:"appointment_id"`
	} `json:"conflicts"`
}

func barberID(t *testing.T, s *server) uint {
	u, err := s.repo.FindUserByEmail(context.Background(), barberEmail)
	if err != nil {
		t.Fatalf("barber: %v", err)
	}
	return u.ID
}

// ======================================================
// Tests
// ======================================================

func TestHealth(t *testing.T) {
	s := newServer(t)

	if rr := s.do(http.MethodGet, "/health", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestPublicBooking_PendingThenConflict(t *testing.T) {
	s := newServer(t)
	barber := barberID(t, s)

	// user 1 is the admin, who can also take bookings
	rr := s.do(http.MethodGet, "/api/public/availability?barber_id=1&service_id=100&date="+testDay, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", rr.Code, rr.Body.String())
	}
	var avail struct {
		Slots []string `json:"slots"`
	}
	decode(t, rr, &avail)
	if len(avail.Slots) != 17 || avail.Slots[0] != "8:00 AM" {
		t.Fatalf("slots = %v", avail.Slots)
	}

	req := map[string]any{
		"barber_id":    barber,
		"service_id":   100,
		"client_name":  "Walk In",
		"client_phone": "5551234567",
		"date":         testDay,
		"start_time":   "10:00",
	}

	rr = s.do(http.MethodPost, "/api/public/appointments", "", req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		End    string `json:"end_time"`
	}
	decode(t, rr, &created)
	if created.Status != "pending" || created.End != "11:00:00" {
		t.Fatalf("created = %+v", created)
	}

	req["start_time"] = "10:30"
	rr = s.do(http.MethodPost, "/api/public/appointments", "", req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("overlap: %d %s", rr.Code, rr.Body.String())
	}
	var eb errorBody
	decode(t, rr, &eb)
	if eb.Kind != "conflict" || eb.Code != "time_conflict" || len(eb.Conflicts) != 1 || eb.Conflicts[0].AppointmentID != created.ID {
		t.Fatalf("error body = %+v", eb)
	}
}

func TestPublicBooking_ValidationIs400(t *testing.T) {
	s := newServer(t)

	rr := s.do(http.MethodPost, "/api/public/appointments", "", map[string]any{
		"barber_id":   barberID(t, s),
		"service_id":  100,
		"client_name": "X",
		"date":        testDay,
		"start_time":  "10:00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var eb errorBody
	decode(t, rr, &eb)
	if eb.Kind != "validation" || eb.Code != "invalid_walk_in_name" {
		t.Fatalf("error body = %+v", eb)
	}
}

func TestStaffRoutesRequireToken(t *testing.T) {
	s := newServer(t)

	if rr := s.do(http.MethodGet, "/api/schedule?date="+testDay, "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr := s.do(http.MethodGet, "/api/schedule?date="+testDay, "garbage", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status with bad token = %d", rr.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newServer(t)

	rr := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "nope"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestStaffLifecycle(t *testing.T) {
	s := newServer(t)
	token := s.login(barberEmail)
	barber := barberID(t, s)

	rr := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"barber_id":  barber,
		"service_id": 100,
		"walk_in":    map[string]string{"name": "Carl"},
		"date":       testDay,
		"start_time": "14:00:00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var ap struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Date   string `json:"date"`
	}
	decode(t, rr, &ap)
	if ap.Status != "confirmed" || ap.Date != testDay {
		t.Fatalf("created = %+v", ap)
	}

	rr = s.do(http.MethodPatch, "/api/appointments/"+ap.ID+"/confirm", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", rr.Code, rr.Body.String())
	}

	rr = s.do(http.MethodPatch, "/api/appointments/"+ap.ID+"/cancel", token, map[string]string{"reason": "late"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("cancel after complete: %d", rr.Code)
	}
	var eb errorBody
	decode(t, rr, &eb)
	if eb.Kind != "state_transition" {
		t.Fatalf("kind = %s", eb.Kind)
	}

	rr = s.do(http.MethodGet, "/api/schedule?date="+testDay, token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("schedule: %d", rr.Code)
	}
	var sched struct {
		Appointments []struct {
			ClientName string `json:"client_name"`
			Status     string `json:"status"`
		} `json:"appointments"`
	}
	decode(t, rr, &sched)
	if len(sched.Appointments) != 1 || sched.Appointments[0].ClientName != "Carl" || sched.Appointments[0].Status != "completed" {
		t.Fatalf("schedule = %+v", sched)
	}
}

func TestInvalidAppointmentID(t *testing.T) {
	s := newServer(t)
	token := s.login(barberEmail)

	rr := s.do(http.MethodPatch, "/api/appointments/not-a-uuid/expire", token, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newServer(t)
	barberToken := s.login(barberEmail)
	adminToken := s.login(adminEmail)

	rr := s.do(http.MethodPost, "/api/appointments", adminToken, map[string]any{
		"barber_id":  barberID(t, s),
		"service_id": 100,
		"walk_in":    map[string]string{"name": "Dora"},
		"date":       testDay,
		"start_time": "09:00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var ap struct {
		ID string `json:"id"`
	}
	decode(t, rr, &ap)

	if rr := s.do(http.MethodDelete, "/api/appointments/"+ap.ID, barberToken, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("barber delete = %d, want 403", rr.Code)
	}
	if rr := s.do(http.MethodGet, "/api/audit-logs", barberToken, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("barber audit = %d, want 403", rr.Code)
	}

	if rr := s.do(http.MethodPatch, "/api/appointments/"+ap.ID+"/sale", adminToken, map[string]uint{"sale_id": 9}); rr.Code != http.StatusOK {
		t.Fatalf("sale = %d %s", rr.Code, rr.Body.String())
	}
	if rr := s.do(http.MethodDelete, "/api/appointments/"+ap.ID, adminToken, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("admin delete = %d", rr.Code)
	}
	if rr := s.do(http.MethodDelete, "/api/appointments/"+ap.ID, adminToken, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d", rr.Code)
	}
}

func TestRegisterDevice(t *testing.T) {
	s := newServer(t)
	token := s.login(barberEmail)

	if rr := s.do(http.MethodPost, "/api/me/devices", token, map[string]string{"token": "not-expo"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad token status = %d", rr.Code)
	}
	if rr := s.do(http.MethodPost, "/api/me/devices", token, map[string]string{"token": "ExponentPushToken[abc]"}); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}

	tokens, _ := s.repo.ListDeviceTokens(context.Background(), barberID(t, s))
	if len(tokens) != 1 {
		t.Fatalf("tokens = %v", tokens)
	}
}
