package notification

import (
	"context"
	"fmt"

	"aircon_booking_backend/platform/logger"

	"github.com/nyaruka/phonenumbers"
)

// SMSSender delivers short text messages.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSMSSender writes messages to the log instead of a gateway. Used in
// development and when no SMS provider is configured.
type LogSMSSender struct {
	log           *logger.Logger
	defaultRegion string
}

// NewLogSMSSender creates a log-backed SMS sender
func NewLogSMSSender(log *logger.Logger, defaultRegion string) *LogSMSSender {
	return &LogSMSSender{log: log, defaultRegion: defaultRegion}
}

// Send normalizes the destination number and logs the message.
func (s *LogSMSSender) Send(_ context.Context, phone, message string) error {
	normalized, err := NormalizePhone(phone, s.defaultRegion)
	if err != nil {
		return err
	}
	s.log.Info("sms_outbound", "to", normalized, "message", message)
	return nil
}

// NormalizePhone parses a raw phone number and returns it in E.164 form.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number: %s", raw)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
