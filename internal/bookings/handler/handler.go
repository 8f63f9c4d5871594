package handler

import (
	"net/http"
	"time"

	"aircon_booking_backend/internal/bookings/repository"
	"aircon_booking_backend/internal/bookings/service"
	"aircon_booking_backend/internal/bookings/transport"
	"aircon_booking_backend/internal/events"
	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/httpkit"
	"aircon_booking_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request body"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid booking id"
	dateFormat          = "2006-01-02"
)

func errBadID(msg string) error     { return apperr.BadRequest(msg) }
func errForbidden(msg string) error { return apperr.Forbidden(msg) }

// Handler exposes booking endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new bookings handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the customer-facing booking endpoints.
// authOptional recognizes signed-in customers without requiring a token;
// limiter protects the endpoints that allocate booking numbers.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, authOptional gin.HandlerFunc, limiter *httpkit.BookingRateLimiter) {
	b := rg.Group("/bookings", authOptional)
	b.POST("/estimate", limiter.RateLimit(), h.estimate)
	b.POST("", limiter.RateLimit(), h.create)
	b.GET("/number/:number", h.getByNumber)
	b.POST("/:id/request-cancellation", limiter.RateLimit(), h.requestCancellation)
}

// RegisterAdminRoutes registers the booking management endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	b := rg.Group("/bookings")
	b.GET("", h.list)
	b.GET("/:id", h.get)
	b.POST("", h.create)
	b.PATCH("/:id/status", h.transition)
	b.PUT("/:id/details", h.updateDetails)
}

func (h *Handler) estimate(c *gin.Context) {
	var req transport.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid service id")
		return
	}
	airconTypeID, err := uuid.Parse(req.AirconTypeID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid aircon type id")
		return
	}

	resp, err := h.svc.Estimate(c.Request.Context(), serviceID, airconTypeID, req.NumberOfUnits)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}
	if req.Contact != nil {
		if err := h.val.Struct(*req.Contact); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
			return
		}
	}

	in, err := h.buildCreateInput(c, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), *in)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// buildCreateInput resolves the customer reference. A signed-in user
// books as themselves, an anonymous caller books as a guest contact,
// and a legacy free-text name is reserved for admin imports.
func (h *Handler) buildCreateInput(c *gin.Context, req transport.CreateBookingRequest) (*service.CreateInput, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, errBadID("invalid service id")
	}
	airconTypeID, err := uuid.Parse(req.AirconTypeID)
	if err != nil {
		return nil, errBadID("invalid aircon type id")
	}
	timeslotID, err := uuid.Parse(req.TimeslotID)
	if err != nil {
		return nil, errBadID("invalid timeslot id")
	}
	date, err := time.Parse(dateFormat, req.ScheduledDate)
	if err != nil {
		return nil, errBadID("invalid scheduled date, expected YYYY-MM-DD")
	}

	in := service.CreateInput{
		ServiceID:    serviceID,
		AirconTypeID: airconTypeID,
		Units:        req.NumberOfUnits,
		Date:         date,
		TimeslotID:   timeslotID,
		Address:      req.Address,
	}
	if req.TechnicianID != nil {
		techID, err := uuid.Parse(*req.TechnicianID)
		if err != nil {
			return nil, errBadID("invalid technician id")
		}
		in.TechnicianID = &techID
	}
	if req.Contact != nil {
		in.Contact = events.BookingContact{Name: req.Contact.Name, Phone: req.Contact.Phone, Email: req.Contact.Email}
	}

	identity := httpkit.GetIdentity(c)
	switch {
	case req.LegacyCustomerName != nil:
		if !identity.HasRole("admin") {
			return nil, errForbidden("legacy customer names are restricted to administrators")
		}
		in.Customer, err = service.LegacyNameCustomer(*req.LegacyCustomerName)
	case identity.IsAuthenticated() && !identity.HasRole("admin"):
		in.Customer, err = service.RegisteredCustomer(identity.UserID())
	default:
		if req.Contact == nil {
			return nil, errBadID("contact details are required for guest bookings")
		}
		var email *string
		if req.Contact.Email != "" {
			e := req.Contact.Email
			email = &e
		}
		var guestID uuid.UUID
		guestID, err = h.svc.CreateGuest(c.Request.Context(), req.Contact.Name, req.Contact.Phone, email)
		if err != nil {
			return nil, err
		}
		in.Customer, err = service.GuestCustomer(guestID)
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (h *Handler) transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	in := service.TransitionInput{
		Action:         service.Action(req.Action),
		ReasonCategory: req.ReasonCategory,
		ReasonDetails:  req.ReasonDetails,
	}
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		actorID := identity.UserID()
		in.ActorID = &actorID
	}

	resp, err := h.svc.Transition(c.Request.Context(), id, in)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) requestCancellation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req transport.RequestCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	resp, err := h.svc.Transition(c.Request.Context(), id, service.TransitionInput{
		Action:         service.ActionRequestCancel,
		ReasonCategory: req.ReasonCategory,
		ReasonDetails:  req.ReasonDetails,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) getByNumber(c *gin.Context) {
	resp, err := h.svc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) list(c *gin.Context) {
	params := repository.ListParams{Status: c.Query("status")}

	if raw := c.Query("technicianId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid technician id")
			return
		}
		params.TechnicianID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateFormat, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid from date")
			return
		}
		params.FromDate = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateFormat, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid to date")
			return
		}
		params.ToDate = &t
	}

	resp, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) updateDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req transport.UpdateBookingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	resp, err := h.svc.UpdateDetails(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}
