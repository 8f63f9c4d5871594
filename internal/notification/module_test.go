package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aircon_booking_backend/internal/events"
	platformevents "aircon_booking_backend/platform/events"
	"aircon_booking_backend/platform/logger"
)

type testNotificationConfig struct {
	sms   bool
	email bool
}

func (c testNotificationConfig) GetSMSEnabled() bool         { return c.sms }
func (c testNotificationConfig) GetSMSDefaultRegion() string { return "SG" }
func (c testNotificationConfig) GetEmailEnabled() bool       { return c.email }
func (c testNotificationConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (c testNotificationConfig) GetSMTPPort() int            { return 587 }
func (c testNotificationConfig) GetSMTPUsername() string     { return "" }
func (c testNotificationConfig) GetSMTPPassword() string     { return "" }
func (c testNotificationConfig) GetEmailFromName() string    { return "Aircon Service" }
func (c testNotificationConfig) GetEmailFromAddress() string { return "noreply@example.com" }

type testEmailSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to          string
	subject     string
	html        string
	attachments []Attachment
}

func (s *testEmailSender) Send(_ context.Context, to, subject, html string, attachments ...Attachment) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{to: to, subject: subject, html: html, attachments: attachments})
	return nil
}

type testSMSSender struct {
	sent []string
}

func (s *testSMSSender) Send(_ context.Context, to, message string) error {
	s.sent = append(s.sent, to+": "+message)
	return nil
}

var testContact = events.BookingContact{
	Name:  "Tan Ah Kow",
	Phone: "+6591234567",
	Email: "tan@example.com",
}

func TestOnCreatedSendsBothChannels(t *testing.T) {
	email := &testEmailSender{}
	sms := &testSMSSender{}
	m := NewModule(email, sms, testNotificationConfig{sms: true, email: true}, logger.New("development"))

	err := m.onCreated(context.Background(), events.BookingCreated{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       testContact,
		ServiceName:   "General Cleaning",
		ScheduledDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		TimeslotLabel: "09:00 - 12:00",
		TotalCents:    216000,
	})
	if err != nil {
		t.Fatalf("onCreated: %v", err)
	}

	if len(sms.sent) != 1 {
		t.Fatalf("sms sent = %d, want 1", len(sms.sent))
	}
	if !strings.Contains(sms.sent[0], "KMT-000042") {
		t.Errorf("sms missing booking number: %s", sms.sent[0])
	}

	if len(email.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(email.sent))
	}
	msg := email.sent[0]
	if msg.to != testContact.Email {
		t.Errorf("email to = %s, want %s", msg.to, testContact.Email)
	}
	for _, want := range []string{"KMT-000042", "Tan Ah Kow", "General Cleaning", "2026-03-20", "2160.00"} {
		if !strings.Contains(msg.html, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestOnConfirmedAttachesQRCode(t *testing.T) {
	email := &testEmailSender{}
	m := NewModule(email, &testSMSSender{}, testNotificationConfig{email: true}, logger.New("development"))

	err := m.onConfirmed(context.Background(), events.BookingConfirmed{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       testContact,
		ScheduledDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("onConfirmed: %v", err)
	}

	if len(email.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(email.sent))
	}
	atts := email.sent[0].attachments
	if len(atts) != 1 {
		t.Fatalf("attachments = %d, want 1", len(atts))
	}
	if atts[0].FileName != "KMT-000042.png" {
		t.Errorf("attachment name = %s, want KMT-000042.png", atts[0].FileName)
	}
	if len(atts[0].Content) == 0 {
		t.Error("attachment content is empty")
	}
}

func TestDisabledChannelsSendNothing(t *testing.T) {
	email := &testEmailSender{}
	sms := &testSMSSender{}
	m := NewModule(email, sms, testNotificationConfig{}, logger.New("development"))

	err := m.onCreated(context.Background(), events.BookingCreated{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       testContact,
		ScheduledDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("onCreated: %v", err)
	}
	if len(email.sent) != 0 || len(sms.sent) != 0 {
		t.Errorf("sent with channels disabled: %d emails, %d sms", len(email.sent), len(sms.sent))
	}
}

func TestMissingContactSkipsDelivery(t *testing.T) {
	email := &testEmailSender{}
	sms := &testSMSSender{}
	m := NewModule(email, sms, testNotificationConfig{sms: true, email: true}, logger.New("development"))

	err := m.onCancelled(context.Background(), events.BookingCancelled{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       events.BookingContact{Name: "Walk-in Customer"},
	})
	if err != nil {
		t.Fatalf("onCancelled: %v", err)
	}
	if len(email.sent) != 0 || len(sms.sent) != 0 {
		t.Errorf("sent without contact details: %d emails, %d sms", len(email.sent), len(sms.sent))
	}
}

func TestSendFailureDoesNotPropagate(t *testing.T) {
	email := &testEmailSender{err: errors.New("smtp unavailable")}
	m := NewModule(email, &testSMSSender{}, testNotificationConfig{email: true}, logger.New("development"))

	err := m.onCompleted(context.Background(), events.BookingCompleted{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       testContact,
	})
	if err != nil {
		t.Fatalf("onCompleted returned delivery error: %v", err)
	}
}

func TestRegisterHandlersSubscribesAllBookingEvents(t *testing.T) {
	bus := platformevents.NewInMemoryBus(logger.New("development"))
	email := &testEmailSender{}
	m := NewModule(email, &testSMSSender{}, testNotificationConfig{email: true}, logger.New("development"))
	m.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.BookingReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		BookingNumber: "KMT-000042",
		Contact:       testContact,
		ScheduledDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		TimeslotLabel: "09:00 - 12:00",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(email.sent))
	}
	if !strings.Contains(email.sent[0].subject, "Reminder") {
		t.Errorf("subject = %q, want a reminder subject", email.sent[0].subject)
	}
}
