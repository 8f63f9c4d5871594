// Package technicians provides the technician directory domain module:
// profiles, weekly availability windows, and review-based ratings.
package technicians

import (
	apphttp "aircon_booking_backend/internal/http"
	"aircon_booking_backend/internal/technicians/handler"
	"aircon_booking_backend/internal/technicians/repository"
	"aircon_booking_backend/internal/technicians/service"
	"aircon_booking_backend/platform/logger"
	"aircon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the technicians domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
	Repo    *repository.Repository
}

// NewModule creates a new technicians module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, phoneRegion string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, phoneRegion)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
		Repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "technicians"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
