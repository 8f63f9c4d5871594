// Package notification subscribes to booking domain events and sends
// customer emails and SMS messages. Delivery is best-effort: failures
// are logged and never affect booking state.
package notification

import (
	"context"
	"fmt"

	"aircon_booking_backend/internal/events"
	"aircon_booking_backend/platform/config"
	"aircon_booking_backend/platform/logger"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// Module wires booking events to notification channels.
type Module struct {
	email EmailSender
	sms   SMSSender
	cfg   config.NotificationConfig
	log   *logger.Logger
}

// NewModule creates a new notification module
func NewModule(email EmailSender, sms SMSSender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{email: email, sms: sms, cfg: cfg, log: log}
}

// RegisterHandlers subscribes the module to the booking events it handles.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.BookingCreated{}.EventName(), events.HandlerFunc(m.onCreated))
	bus.Subscribe(events.BookingConfirmed{}.EventName(), events.HandlerFunc(m.onConfirmed))
	bus.Subscribe(events.BookingCancelled{}.EventName(), events.HandlerFunc(m.onCancelled))
	bus.Subscribe(events.BookingCancellationRequested{}.EventName(), events.HandlerFunc(m.onCancellationRequested))
	bus.Subscribe(events.BookingCancellationRejected{}.EventName(), events.HandlerFunc(m.onCancellationRejected))
	bus.Subscribe(events.BookingCompleted{}.EventName(), events.HandlerFunc(m.onCompleted))
	bus.Subscribe(events.BookingReminderDue{}.EventName(), events.HandlerFunc(m.onReminderDue))
}

func (m *Module) onReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendSMS(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf("Reminder: your booking %s is scheduled for %s (%s).",
			e.BookingNumber, e.ScheduledDate.Format("2006-01-02"), e.TimeslotLabel))

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf("Reminder for booking %s", e.BookingNumber),
		bookingEmailData{
			Title:         "Upcoming appointment",
			Heading:       "Your appointment is coming up",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			ScheduledDate: e.ScheduledDate.Format("2006-01-02"),
			TimeslotLabel: e.TimeslotLabel,
			Message:       "This is a reminder of your upcoming appointment. Please make sure someone is home during the timeslot.",
		})
	return nil
}

func (m *Module) onCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendSMS(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf("We received your booking %s for %s. We will confirm it shortly.", e.BookingNumber, e.ScheduledDate.Format("2006-01-02")))

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectBookingReceived, e.BookingNumber),
		bookingEmailData{
			Title:         "Booking received",
			Heading:       "We received your booking",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			ServiceName:   e.ServiceName,
			ScheduledDate: e.ScheduledDate.Format("2006-01-02"),
			TimeslotLabel: e.TimeslotLabel,
			TotalAmount:   formatCents(e.TotalCents),
			Message:       "Thank you for your booking. Our team will confirm your appointment shortly.",
		})
	return nil
}

func (m *Module) onConfirmed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingConfirmed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendSMS(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf("Your booking %s is confirmed for %s.", e.BookingNumber, e.ScheduledDate.Format("2006-01-02")))

	var attachments []Attachment
	if png, err := qrcode.Encode(e.BookingNumber, qrcode.Medium, qrSize); err == nil {
		attachments = append(attachments, Attachment{FileName: e.BookingNumber + ".png", Content: png})
	} else {
		m.log.NotificationFailure(e.EventName(), e.BookingNumber, err)
	}

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectBookingConfirmed, e.BookingNumber),
		bookingEmailData{
			Title:         "Booking confirmed",
			Heading:       "Your booking is confirmed",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			ScheduledDate: e.ScheduledDate.Format("2006-01-02"),
			TimeslotLabel: e.TimeslotLabel,
			Message:       "Your appointment has been confirmed. Our technician will arrive within the booked timeslot.",
			HasQR:         len(attachments) > 0,
		}, attachments...)
	return nil
}

func (m *Module) onCancelled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendSMS(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf("Your booking %s has been cancelled.", e.BookingNumber))

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectBookingCancelled, e.BookingNumber),
		bookingEmailData{
			Title:         "Booking cancelled",
			Heading:       "Your booking has been cancelled",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			Message:       "Your booking has been cancelled. Any payments made will be settled according to our refund policy.",
		})
	return nil
}

func (m *Module) onCancellationRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCancellationRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectCancellationPending, e.BookingNumber),
		bookingEmailData{
			Title:         "Cancellation request received",
			Heading:       "We received your cancellation request",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			Message:       "Our team will review your cancellation request and get back to you.",
		})
	return nil
}

func (m *Module) onCancellationRejected(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCancellationRejected)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectCancellationDenied, e.BookingNumber),
		bookingEmailData{
			Title:         "Cancellation request declined",
			Heading:       "Your cancellation request was declined",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			Message:       "Your cancellation request could not be accepted. Your booking remains scheduled; contact us if you have questions.",
		})
	return nil
}

func (m *Module) onCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BookingCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.sendEmail(ctx, e.EventName(), e.BookingNumber, e.Contact,
		fmt.Sprintf(subjectBookingCompleted, e.BookingNumber),
		bookingEmailData{
			Title:         "Service completed",
			Heading:       "Your service is complete",
			CustomerName:  e.Contact.Name,
			BookingNumber: e.BookingNumber,
			Message:       "Thank you for choosing us. We would love to hear your feedback on the service.",
		})
	return nil
}

func (m *Module) sendEmail(ctx context.Context, eventName, bookingNumber string, contact events.BookingContact, subject string, data bookingEmailData, attachments ...Attachment) {
	if !m.cfg.GetEmailEnabled() || contact.Email == "" {
		return
	}
	content, err := renderBookingEmail(data)
	if err != nil {
		m.log.NotificationFailure(eventName, bookingNumber, err)
		return
	}
	if err := m.email.Send(ctx, contact.Email, subject, content, attachments...); err != nil {
		m.log.NotificationFailure(eventName, bookingNumber, err)
	}
}

func (m *Module) sendSMS(ctx context.Context, eventName, bookingNumber string, contact events.BookingContact, message string) {
	if !m.cfg.GetSMSEnabled() || contact.Phone == "" {
		return
	}
	if err := m.sms.Send(ctx, contact.Phone, message); err != nil {
		m.log.NotificationFailure(eventName, bookingNumber, err)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
