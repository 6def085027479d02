// Command seed creates the administrator account. Run it once per database.
package main

import (
	"context"
	"log"

	"github.com/BruksfildServices01/barbershop-appointments/internal/bootstrap"
	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-appointments/internal/db"
	"github.com/BruksfildServices01/barbershop-appointments/internal/infra/repository"
)

func main() {
	cfg := config.Load()

	db := dbpkg.NewDB(cfg)
	defer dbpkg.Close(db)

	admin, created, err := bootstrap.SeedAdmin(context.Background(), repository.NewAppointmentGormRepository(db), cfg.Seed)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	if !created {
		log.Printf("admin %s already exists (id %d)", admin.Email, admin.ID)
		return
	}
	log.Printf("admin %s created (id %d)", admin.Email, admin.ID)
}
