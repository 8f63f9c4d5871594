package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email subjects.
const (
	subjectBookingReceived     = "Booking %s received"
	subjectBookingConfirmed    = "Booking %s confirmed"
	subjectBookingCancelled    = "Booking %s cancelled"
	subjectCancellationPending = "Cancellation request for booking %s received"
	subjectCancellationDenied  = "Cancellation request for booking %s declined"
	subjectBookingCompleted    = "Booking %s completed"
)

// bookingEmailData feeds the booking email templates.
type bookingEmailData struct {
	Title         string
	Heading       string
	CustomerName  string
	BookingNumber string
	ServiceName   string
	ScheduledDate string
	TimeslotLabel string
	TotalAmount   string
	Message       string
	HasQR         bool
}

var bookingEmailTmpl = template.Must(template.New("booking").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Heading}}</h2>
  {{if .CustomerName}}<p>Dear {{.CustomerName}},</p>{{end}}
  <p>{{.Message}}</p>
  <table cellpadding="4">
    <tr><td><strong>Booking number</strong></td><td>{{.BookingNumber}}</td></tr>
    {{if .ServiceName}}<tr><td><strong>Service</strong></td><td>{{.ServiceName}}</td></tr>{{end}}
    {{if .ScheduledDate}}<tr><td><strong>Date</strong></td><td>{{.ScheduledDate}}</td></tr>{{end}}
    {{if .TimeslotLabel}}<tr><td><strong>Time</strong></td><td>{{.TimeslotLabel}}</td></tr>{{end}}
    {{if .TotalAmount}}<tr><td><strong>Total</strong></td><td>{{.TotalAmount}}</td></tr>{{end}}
  </table>
  {{if .HasQR}}<p>Show the attached QR code to your technician on the day of service.</p>{{end}}
</body>
</html>`))

func renderBookingEmail(data bookingEmailData) (string, error) {
	var buf bytes.Buffer
	if err := bookingEmailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render booking email: %w", err)
	}
	return buf.String(), nil
}
