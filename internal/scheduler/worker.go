// Package scheduler runs delayed booking tasks on asynq: currently the
// pre-appointment customer reminder.
package scheduler

import (
	"context"
	"fmt"

	bookingrepo "aircon_booking_backend/internal/bookings/repository"
	bookingsvc "aircon_booking_backend/internal/bookings/service"
	catalogrepo "aircon_booking_backend/internal/catalog/repository"
	"aircon_booking_backend/internal/events"
	"aircon_booking_backend/platform/config"
	"aircon_booking_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	bookings *bookingrepo.Repository
	catalog  *catalogrepo.Repository
	bus      events.Bus
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		bookings: bookingrepo.New(pool),
		catalog:  catalogrepo.New(pool),
		bus:      bus,
		log:      log,
	}

	mux.HandleFunc(TaskBookingReminder, w.handleBookingReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleBookingReminder fires the reminder event for a booking that is
// still confirmed when its reminder time arrives. Bookings cancelled
// after the reminder was enqueued are skipped silently.
func (w *Worker) handleBookingReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBookingReminderPayload(task)
	if err != nil {
		return err
	}
	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return err
	}

	booking, err := w.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != string(bookingsvc.StatusConfirmed) {
		return nil
	}

	var label string
	if slot, err := w.catalog.GetTimeslotByID(ctx, booking.TimeslotID); err == nil {
		label = slot.Label
	}

	contact := events.BookingContact{}
	if booking.GuestID != nil {
		if g, err := w.bookings.GetGuest(ctx, *booking.GuestID); err == nil {
			contact = events.BookingContact{Name: g.FullName, Phone: g.Phone}
			if g.Email != nil {
				contact.Email = *g.Email
			}
		}
	}

	return w.bus.PublishSync(ctx, events.BookingReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		Contact:       contact,
		ScheduledDate: booking.ScheduledDate,
		TimeslotLabel: label,
	})
}
