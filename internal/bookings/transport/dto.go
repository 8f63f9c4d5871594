package transport

// EstimateRequest asks for a price and duration estimate.
type EstimateRequest struct {
	ServiceID     string `json:"serviceId" validate:"required,uuid"`
	AirconTypeID  string `json:"airconTypeId" validate:"required,uuid"`
	NumberOfUnits int    `json:"numberOfUnits" validate:"required,min=1,max=50"`
}

// EstimateResponse carries the derived price and time cost.
type EstimateResponse struct {
	TotalCents               int64  `json:"totalCents"`
	TotalAmount              string `json:"totalAmount"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes"`
	EstimatedDays            int    `json:"estimatedDays"`
}

// ContactRequest is the customer contact block of a booking request.
type ContactRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Phone string `json:"phone" validate:"required,min=6,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

// CreateBookingRequest creates a booking. The customer is either the
// authenticated user, a guest identified by the contact block, or a
// free-text legacy name supplied by an admin import.
type CreateBookingRequest struct {
	ServiceID          string          `json:"serviceId" validate:"required,uuid"`
	AirconTypeID       string          `json:"airconTypeId" validate:"required,uuid"`
	NumberOfUnits      int             `json:"numberOfUnits" validate:"required,min=1,max=50"`
	TechnicianID       *string         `json:"technicianId" validate:"omitempty,uuid"`
	ScheduledDate      string          `json:"scheduledDate" validate:"required"`
	TimeslotID         string          `json:"timeslotId" validate:"required,uuid"`
	Address            string          `json:"address" validate:"required,min=5,max=500"`
	Contact            *ContactRequest `json:"contact" validate:"omitempty"`
	LegacyCustomerName *string         `json:"legacyCustomerName" validate:"omitempty,min=2,max=120"`
}

// TransitionRequest applies a lifecycle action to a booking.
type TransitionRequest struct {
	Action         string `json:"action" validate:"required,oneof=confirm start complete cancel request_cancellation accept_cancellation reject_cancellation"`
	ReasonCategory string `json:"reasonCategory" validate:"omitempty,max=60"`
	ReasonDetails  string `json:"reasonDetails" validate:"omitempty,max=1000"`
}

// RequestCancellationRequest is the customer-facing cancellation request.
type RequestCancellationRequest struct {
	ReasonCategory string `json:"reasonCategory" validate:"required,max=60"`
	ReasonDetails  string `json:"reasonDetails" validate:"omitempty,max=1000"`
}

// UpdateBookingDetailsRequest edits the pricing-affecting fields.
type UpdateBookingDetailsRequest struct {
	ServiceID     *string `json:"serviceId" validate:"omitempty,uuid"`
	AirconTypeID  *string `json:"airconTypeId" validate:"omitempty,uuid"`
	NumberOfUnits *int    `json:"numberOfUnits" validate:"omitempty,min=1,max=50"`
}

// CustomerRefResponse is the API view of the booking's customer.
type CustomerRefResponse struct {
	Kind    string `json:"kind"`
	UserID  string `json:"userId,omitempty"`
	GuestID string `json:"guestId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// CancellationResponse is the API view of cancellation metadata.
type CancellationResponse struct {
	RequestedAt    string  `json:"requestedAt"`
	ReasonCategory string  `json:"reasonCategory"`
	ReasonDetails  string  `json:"reasonDetails,omitempty"`
	ProcessedAt    *string `json:"processedAt,omitempty"`
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID                       string                `json:"id"`
	BookingNumber            string                `json:"bookingNumber"`
	Customer                 CustomerRefResponse   `json:"customer"`
	ServiceID                string                `json:"serviceId"`
	AirconTypeID             string                `json:"airconTypeId"`
	NumberOfUnits            int                   `json:"numberOfUnits"`
	TechnicianID             *string               `json:"technicianId,omitempty"`
	ScheduledDate            string                `json:"scheduledDate"`
	TimeslotID               string                `json:"timeslotId"`
	Address                  string                `json:"address"`
	Status                   string                `json:"status"`
	PaymentStatus            string                `json:"paymentStatus"`
	TotalCents               int64                 `json:"totalCents"`
	TotalAmount              string                `json:"totalAmount"`
	EstimatedDurationMinutes int                   `json:"estimatedDurationMinutes"`
	EstimatedDays            int                   `json:"estimatedDays"`
	ConfirmedAt              *string               `json:"confirmedAt,omitempty"`
	CompletedAt              *string               `json:"completedAt,omitempty"`
	Cancellation             *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt                string                `json:"createdAt"`
	UpdatedAt                string                `json:"updatedAt"`
}
