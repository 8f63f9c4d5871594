// Package service implements availability computation and technician
// ranking for the booking flow.
package service

import (
	"context"
	"sort"
	"time"

	"aircon_booking_backend/platform/apperr"
	"aircon_booking_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Technician is the scheduling view of a technician record.
type Technician struct {
	ID            uuid.UUID
	FullName      string
	IsAvailable   bool
	MaxDailyJobs  int
	RatingAverage *float64
}

// Window is a recurring weekly working window, with times expressed as
// minutes since midnight.
type Window struct {
	Weekday      time.Weekday
	StartMinutes int
	EndMinutes   int
}

// Timeslot is the scheduling view of a bookable timeslot.
type Timeslot struct {
	ID           uuid.UUID
	Label        string
	StartMinutes int
	EndMinutes   int
}

// TechnicianSource provides technician records and their weekly windows.
type TechnicianSource interface {
	ListActive(ctx context.Context) ([]Technician, error)
	Windows(ctx context.Context) (map[uuid.UUID][]Window, error)
}

// TimeslotSource provides bookable timeslots.
type TimeslotSource interface {
	GetTimeslot(ctx context.Context, id uuid.UUID) (*Timeslot, error)
	ListTimeslots(ctx context.Context) ([]Timeslot, error)
}

// BookingCounter reports active booking counts per technician for a date.
type BookingCounter interface {
	ActiveCountsOnDate(ctx context.Context, date time.Time) (map[uuid.UUID]int, error)
}

// RatingSource provides per-service review averages.
type RatingSource interface {
	ServiceRating(ctx context.Context, technicianID, serviceID uuid.UUID) (*float64, int, error)
}

// TimeslotAvailability is the availability result for one timeslot.
type TimeslotAvailability struct {
	TimeslotID    uuid.UUID
	Label         string
	AvailableCount int
	IsAvailable   bool
	TechnicianIDs []uuid.UUID
}

// RankedTechnician is one entry of a ranking result.
type RankedTechnician struct {
	TechnicianID  uuid.UUID
	FullName      string
	Rank          int
	Score         float64
	ServiceRating float64
	ReviewCount   int
}

// RankingResult carries either a ranked candidate list or, in degraded
// mode, the unranked active technician roster.
type RankingResult struct {
	Degraded    bool
	Ranked      []RankedTechnician
	Technicians []Technician
}

const (
	defaultRating  = 4.0
	serviceWeight  = 0.7
	capacityWeight = 0.3
)

// Service computes availability and technician rankings.
type Service struct {
	techs    TechnicianSource
	slots    TimeslotSource
	bookings BookingCounter
	ratings  RatingSource
	log      *logger.Logger
}

// New creates a new scheduling service
func New(techs TechnicianSource, slots TimeslotSource, bookings BookingCounter, ratings RatingSource, log *logger.Logger) *Service {
	return &Service{techs: techs, slots: slots, bookings: bookings, ratings: ratings, log: log}
}

// ComputeAvailability returns eligibility for a single timeslot on a date.
func (s *Service) ComputeAvailability(ctx context.Context, date time.Time, timeslotID uuid.UUID) (*TimeslotAvailability, error) {
	slot, err := s.slots.GetTimeslot(ctx, timeslotID)
	if err != nil {
		return nil, err
	}

	techs, windows, counts, err := s.loadInputs(ctx, date)
	if err != nil {
		return nil, err
	}

	result := s.eligibleForSlot(techs, windows, counts, date, slot)
	return &result, nil
}

// ComputeDayAvailability returns eligibility for every timeslot on a date.
// Timeslot computations fan out concurrently; the shared inputs are
// loaded once.
func (s *Service) ComputeDayAvailability(ctx context.Context, date time.Time) ([]TimeslotAvailability, error) {
	slots, err := s.slots.ListTimeslots(ctx)
	if err != nil {
		return nil, err
	}

	techs, windows, counts, err := s.loadInputs(ctx, date)
	if err != nil {
		return nil, err
	}

	results := make([]TimeslotAvailability, len(slots))
	g, _ := errgroup.WithContext(ctx)
	for i := range slots {
		g.Go(func() error {
			results[i] = s.eligibleForSlot(techs, windows, counts, date, &slots[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RankTechnicians orders the eligible technicians for (serviceID, date,
// timeslotID) by weighted score, descending. If inputs are incomplete or
// the scoring computation fails, it falls back to the unranked active
// technician list instead of failing the request.
func (s *Service) RankTechnicians(ctx context.Context, serviceID uuid.UUID, date time.Time, timeslotID uuid.UUID) (*RankingResult, error) {
	if serviceID == uuid.Nil || timeslotID == uuid.Nil || date.IsZero() {
		return s.degraded(ctx, "incomplete ranking inputs", nil)
	}

	ranked, err := s.rank(ctx, serviceID, date, timeslotID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, err
		}
		return s.degraded(ctx, "ranking computation failed", err)
	}
	return &RankingResult{Ranked: ranked}, nil
}

func (s *Service) rank(ctx context.Context, serviceID uuid.UUID, date time.Time, timeslotID uuid.UUID) ([]RankedTechnician, error) {
	slot, err := s.slots.GetTimeslot(ctx, timeslotID)
	if err != nil {
		return nil, err
	}

	techs, windows, counts, err := s.loadInputs(ctx, date)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Technician, len(techs))
	for _, t := range techs {
		byID[t.ID] = t
	}

	eligible := s.eligibleForSlot(techs, windows, counts, date, slot)

	ranked := make([]RankedTechnician, 0, len(eligible.TechnicianIDs))
	for _, id := range eligible.TechnicianIDs {
		tech := byID[id]

		rating, reviewCount, err := s.serviceRating(ctx, tech, serviceID)
		if err != nil {
			return nil, err
		}

		serviceScore := (rating - 1) / 4
		capacity := float64(tech.MaxDailyJobs-counts[id]) / float64(tech.MaxDailyJobs)
		if capacity < 0 {
			capacity = 0
		}

		ranked = append(ranked, RankedTechnician{
			TechnicianID:  id,
			FullName:      tech.FullName,
			Score:         serviceScore*serviceWeight + capacity*capacityWeight,
			ServiceRating: rating,
			ReviewCount:   reviewCount,
		})
	}

	// Ties break on technician ID ascending so the order is stable
	// across requests.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].TechnicianID.String() < ranked[j].TechnicianID.String()
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

func (s *Service) serviceRating(ctx context.Context, tech Technician, serviceID uuid.UUID) (float64, int, error) {
	avg, count, err := s.ratings.ServiceRating(ctx, tech.ID, serviceID)
	if err != nil {
		return 0, 0, err
	}
	if avg != nil {
		return *avg, count, nil
	}
	if tech.RatingAverage != nil {
		return *tech.RatingAverage, 0, nil
	}
	return defaultRating, 0, nil
}

func (s *Service) degraded(ctx context.Context, reason string, cause error) (*RankingResult, error) {
	s.log.RankingDegraded(reason, cause)
	techs, err := s.techs.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return &RankingResult{Degraded: true, Technicians: techs}, nil
}

func (s *Service) loadInputs(ctx context.Context, date time.Time) ([]Technician, map[uuid.UUID][]Window, map[uuid.UUID]int, error) {
	var (
		techs   []Technician
		windows map[uuid.UUID][]Window
		counts  map[uuid.UUID]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		techs, err = s.techs.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		windows, err = s.techs.Windows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.bookings.ActiveCountsOnDate(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return techs, windows, counts, nil
}

func (s *Service) eligibleForSlot(techs []Technician, windows map[uuid.UUID][]Window, counts map[uuid.UUID]int, date time.Time, slot *Timeslot) TimeslotAvailability {
	weekday := date.Weekday()

	ids := make([]uuid.UUID, 0)
	for _, t := range techs {
		if !t.IsAvailable {
			continue
		}
		if counts[t.ID] >= t.MaxDailyJobs {
			continue
		}
		if !windowCovers(windows[t.ID], weekday, slot) {
			continue
		}
		ids = append(ids, t.ID)
	}

	return TimeslotAvailability{
		TimeslotID:     slot.ID,
		Label:          slot.Label,
		AvailableCount: len(ids),
		IsAvailable:    len(ids) > 0,
		TechnicianIDs:  ids,
	}
}

func windowCovers(windows []Window, weekday time.Weekday, slot *Timeslot) bool {
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		if w.StartMinutes <= slot.StartMinutes && w.EndMinutes >= slot.EndMinutes {
			return true
		}
	}
	return false
}
