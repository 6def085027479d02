// Package bootstrap holds the one-off setup an operator runs explicitly.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
	domain "github.com/BruksfildServices01/barbershop-appointments/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-appointments/internal/models"
)

var ErrMissingPassword = errors.New("seed: SEED_ADMIN_PASSWORD is required")

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// SeedAdmin creates the administrator account once. An existing account
// with the same email is left untouched and returned.
func SeedAdmin(ctx context.Context, users UserStore, cfg config.SeedConfig) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	existing, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("seed: lookup admin: %w", err)
	}

	if cfg.AdminPassword == "" {
		return nil, false, ErrMissingPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("seed: hash password: %w", err)
	}

	admin := &models.User{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("seed: create admin: %w", err)
	}

	log.Printf("seed: admin %s created", admin.Email)
	return admin, true, nil
}
