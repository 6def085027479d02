package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-appointments/internal/audit"
	"github.com/BruksfildServices01/barbershop-appointments/internal/bootstrap"
	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-appointments/internal/db"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-appointments/internal/notify"
	"github.com/BruksfildServices01/barbershop-appointments/internal/routes"
	"github.com/BruksfildServices01/barbershop-appointments/internal/scheduler"
	"github.com/BruksfildServices01/barbershop-appointments/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-appointments/internal/usecase/appointment"
)

func main() {

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	clock := timezone.NewShopClock(cfg.Timezone)

	// ======================================================
	// STORE
	// ======================================================
	var (
		store routes.Store
		sink  audit.Sink
	)

	switch cfg.StoreDriver {
	case "memory":
		mem := repository.NewMemoryRepository()
		if cfg.Seed.AdminPassword != "" {
			if _, _, err := bootstrap.SeedAdmin(context.Background(), mem, cfg.Seed); err != nil {
				log.Fatalf("failed to seed memory store: %v", err)
			}
		}
		store, sink = mem, mem
		log.Println("using in-memory store; data is lost on exit")
	default:
		db := dbpkg.NewDB(cfg)
		defer dbpkg.Close(db)
		store, sink = repository.NewAppointmentGormRepository(db), audit.New(db)
	}

	// ======================================================
	// SIDE EFFECTS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(sink)
	defer auditDispatcher.Close()

	var notifiers notify.Multi
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From,
		))
	}
	if cfg.PushEnabled {
		notifiers = append(notifiers, notify.NewPushNotifier())
	}
	var notifier notify.Notifier = notify.Nop{}
	if len(notifiers) > 0 {
		notifier = notifiers
	}
	notifyDispatcher := notify.NewDispatcher(notifier)
	defer notifyDispatcher.Close()

	fx := ucAppointment.Effects{
		Audit:  auditDispatcher,
		Notify: notifyDispatcher,
	}

	if cfg.Redis.Addr != "" {
		slotCache, err := cache.NewSlotCache(cfg.Redis)
		if err != nil {
			log.Printf("availability cache disabled: %v", err)
		} else {
			defer slotCache.Close()
			fx.Cache = slotCache
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Store:   store,
		Clock:   clock,
		Effects: fx,
		Rules: domain.SlotRules{
			Buffer:        cfg.Scheduling.SlotBuffer(),
			SameDayOffset: cfg.Scheduling.SameDayOffset(),
		},
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ======================================================
	// SWEEPER
	// ======================================================
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := scheduler.NewSweeper(store, clock, cfg.Scheduling.SweepInterval, cfg.Scheduling.ExpirePending)
	sweeperDone := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(sweeperDone)
	}()

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	<-sweeperDone
}
