package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo *repository.MemoryRepository, date time.Time, start, end string, status domain.Status) uuid.UUID {
	t.Helper()
	ap := &models.Appointment{
		ID:             uuid.New(),
		BarberID:       1,
		ServiceID:      1,
		TempClientName: "Walk In",
		Date:           datatypes.Date(date),
		StartTime:      start,
		EndTime:        end,
		Status:         string(status),
	}
	if err := repo.CreateAppointment(context.Background(), ap); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ap.ID
}

func statusOf(t *testing.T, repo *repository.MemoryRepository, id uuid.UUID) domain.Status {
	t.Helper()
	ap, err := repo.GetAppointment(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return domain.Status(ap.Status)
}

func TestTick_CompletesElapsedConfirmed(t *testing.T) {
	repo := repository.NewMemoryRepository()
	today := timezone.Day(now)
	yesterday := today.AddDate(0, 0, -1)

	done := seed(t, repo, today, "10:00:00", "11:00:00", domain.StatusConfirmed)
	old := seed(t, repo, yesterday, "15:00:00", "16:00:00", domain.StatusConfirmed)
	running := seed(t, repo, today, "11:30:00", "12:30:00", domain.StatusConfirmed)
	edge := seed(t, repo, today, "11:00:00", "12:00:00", domain.StatusConfirmed)
	cancelled := seed(t, repo, yesterday, "09:00:00", "10:00:00", domain.StatusCancelled)

	s := NewSweeper(repo, timezone.FixedClock{T: now}, time.Minute, false)
	res, err := s.Tick(context.Background(), now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Completed != 2 || res.Expired != 0 {
		t.Fatalf("result = %+v", res)
	}

	cases := map[uuid.UUID]domain.Status{
		done:      domain.StatusCompleted,
		old:       domain.StatusCompleted,
		running:   domain.StatusConfirmed,
		edge:      domain.StatusConfirmed, // ends exactly now
		cancelled: domain.StatusCancelled,
	}
	for id, want := range cases {
		if got := statusOf(t, repo, id); got != want {
			t.Errorf("%s = %s, want %s", id, got, want)
		}
	}
}

func TestTick_Idempotent(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, timezone.Day(now), "09:00:00", "10:00:00", domain.StatusConfirmed)

	s := NewSweeper(repo, timezone.FixedClock{T: now}, time.Minute, true)
	if _, err := s.Tick(context.Background(), now); err != nil {
		t.Fatalf("tick: %v", err)
	}

	res, err := s.Tick(context.Background(), now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if res.Completed != 0 || res.Expired != 0 {
		t.Fatalf("second tick moved %+v", res)
	}
}

func TestTick_ExpiresPendingWhenEnabled(t *testing.T) {
	today := timezone.Day(now)

	for _, enabled := range []bool{true, false} {
		repo := repository.NewMemoryRepository()
		id := seed(t, repo, today, "08:00:00", "09:00:00", domain.StatusPending)

		s := NewSweeper(repo, timezone.FixedClock{T: now}, time.Minute, enabled)
		if _, err := s.Tick(context.Background(), now); err != nil {
			t.Fatalf("tick: %v", err)
		}

		want := domain.StatusPending
		if enabled {
			want = domain.StatusExpired
		}
		if got := statusOf(t, repo, id); got != want {
			t.Errorf("expirePending=%v: status = %s, want %s", enabled, got, want)
		}
	}
}

type failingRepo struct {
	*repository.MemoryRepository
	calls int
}

func (f *failingRepo) MoveElapsed(context.Context, domain.Status, domain.Status, time.Time, string, time.Time) (int64, error) {
	f.calls++
	return 0, errors.New("db down")
}

func TestStart_SurvivesFailingTicksAndStops(t *testing.T) {
	repo := &failingRepo{MemoryRepository: repository.NewMemoryRepository()}
	s := NewSweeper(repo, timezone.FixedClock{T: now}, 5*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(stopped)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	if repo.calls < 2 {
		t.Errorf("ticks = %d, want several", repo.calls)
	}
}
