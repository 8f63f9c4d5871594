// Package bookings provides the booking domain module: estimation,
// creation with atomic number issuance and capacity checks, and the
// booking lifecycle state machine.
package bookings

import (
	"aircon_booking_backend/internal/bookings/handler"
	"aircon_booking_backend/internal/bookings/repository"
	"aircon_booking_backend/internal/bookings/service"
	"aircon_booking_backend/internal/events"
	apphttp "aircon_booking_backend/internal/http"
	"aircon_booking_backend/platform/config"
	"aircon_booking_backend/platform/httpkit"
	"aircon_booking_backend/platform/logger"
	"aircon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the bookings domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
	Repo    *repository.Repository
}

// NewModule creates a new bookings module with all dependencies wired.
// The booking number sequence lives in the database so concurrent
// instances issue distinct, increasing numbers.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	log *logger.Logger,
	bus events.Bus,
	policy config.BookingPolicyConfig,
	catalog service.CatalogSource,
	techs service.TechnicianDirectory,
) *Module {
	repo := repository.New(pool)
	seq := repository.NewSequence(pool)
	svc := service.New(repo, catalog, techs, seq, bus, policy, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
		Repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "bookings"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1, httpkit.AuthOptional(ctx.Config), ctx.BookingRateLimiter)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
