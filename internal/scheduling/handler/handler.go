package handler

import (
	"net/http"
	"time"

	"aircon_booking_backend/internal/scheduling/service"
	"aircon_booking_backend/internal/scheduling/transport"
	"aircon_booking_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

// Handler exposes availability and ranking endpoints.
type Handler struct {
	svc *service.Service
}

// New creates a new scheduling handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes registers the public scheduling endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.availability)
	rg.GET("/technicians/rank", h.rank)
}

func (h *Handler) availability(c *gin.Context) {
	date, err := time.Parse(dateFormat, c.Query("date"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	if raw := c.Query("timeslotId"); raw != "" {
		timeslotID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid timeslot id")
			return
		}
		result, err := h.svc.ComputeAvailability(c.Request.Context(), date, timeslotID)
		if err != nil {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.OK(c, transport.DayAvailabilityResponse{
			Date:      date.Format(dateFormat),
			Timeslots: []transport.TimeslotAvailabilityResponse{mapSlot(result)},
		})
		return
	}

	results, err := h.svc.ComputeDayAvailability(c.Request.Context(), date)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	slots := make([]transport.TimeslotAvailabilityResponse, 0, len(results))
	for i := range results {
		slots = append(slots, mapSlot(&results[i]))
	}
	httpkit.OK(c, transport.DayAvailabilityResponse{Date: date.Format(dateFormat), Timeslots: slots})
}

func (h *Handler) rank(c *gin.Context) {
	// Missing parameters are not an error here: the ranking service
	// answers incomplete inputs with the unranked roster. Malformed
	// values are still rejected.
	var serviceID, timeslotID uuid.UUID
	var date time.Time
	var err error

	if raw := c.Query("serviceId"); raw != "" {
		if serviceID, err = uuid.Parse(raw); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid service id")
			return
		}
	}
	if raw := c.Query("timeslotId"); raw != "" {
		if timeslotID, err = uuid.Parse(raw); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid timeslot id")
			return
		}
	}
	if raw := c.Query("date"); raw != "" {
		if date, err = time.Parse(dateFormat, raw); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	result, err := h.svc.RankTechnicians(c.Request.Context(), serviceID, date, timeslotID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := transport.RankingResponse{Degraded: result.Degraded}
	for _, r := range result.Ranked {
		resp.Ranked = append(resp.Ranked, transport.RankedTechnicianResponse{
			TechnicianID:  r.TechnicianID.String(),
			FullName:      r.FullName,
			Rank:          r.Rank,
			Score:         r.Score,
			ServiceRating: r.ServiceRating,
			ReviewCount:   r.ReviewCount,
		})
	}
	for _, t := range result.Technicians {
		resp.Technicians = append(resp.Technicians, transport.UnrankedTechnicianResponse{
			TechnicianID: t.ID.String(),
			FullName:     t.FullName,
		})
	}
	httpkit.OK(c, resp)
}

func mapSlot(a *service.TimeslotAvailability) transport.TimeslotAvailabilityResponse {
	ids := make([]string, 0, len(a.TechnicianIDs))
	for _, id := range a.TechnicianIDs {
		ids = append(ids, id.String())
	}
	return transport.TimeslotAvailabilityResponse{
		TimeslotID:     a.TimeslotID.String(),
		Label:          a.Label,
		AvailableCount: a.AvailableCount,
		IsAvailable:    a.IsAvailable,
		TechnicianIDs:  ids,
	}
}
