// Package scheduling provides the availability and ranking domain module.
// Its data sources are injected so the computations stay independent of
// the storage layer.
package scheduling

import (
	apphttp "aircon_booking_backend/internal/http"
	"aircon_booking_backend/internal/scheduling/handler"
	"aircon_booking_backend/internal/scheduling/service"
	"aircon_booking_backend/platform/logger"
)

// Module represents the scheduling domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new scheduling module with all dependencies wired
func NewModule(techs service.TechnicianSource, slots service.TimeslotSource, bookings service.BookingCounter, ratings service.RatingSource, log *logger.Logger) *Module {
	svc := service.New(techs, slots, bookings, ratings, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "scheduling"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
