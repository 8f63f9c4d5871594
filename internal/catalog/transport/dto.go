package transport

import "github.com/google/uuid"

// Services

type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Category        string `json:"category" validate:"required,oneof=cleaning repair installation maintenance"`
	BasePriceCents  int64  `json:"basePriceCents" validate:"min=0"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=1,max=1440"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category        *string `json:"category,omitempty" validate:"omitempty,oneof=cleaning repair installation maintenance"`
	BasePriceCents  *int64  `json:"basePriceCents,omitempty" validate:"omitempty,min=0"`
	DurationMinutes *int    `json:"durationMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
	Active          *bool   `json:"active,omitempty"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	BasePriceCents  int64     `json:"basePriceCents"`
	DurationMinutes int       `json:"durationMinutes"`
	Active          bool      `json:"active"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// Aircon types

type CreateAirconTypeRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type AirconTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   string    `json:"createdAt"`
}

// Service pricing overrides

type UpsertServicePricingRequest struct {
	AirconTypeID uuid.UUID `json:"airconTypeId" validate:"required"`
	PriceCents   *int64    `json:"priceCents" validate:"required,min=0"`
	Active       *bool     `json:"active,omitempty"`
}

type ServicePricingResponse struct {
	ID           uuid.UUID `json:"id"`
	ServiceID    uuid.UUID `json:"serviceId"`
	AirconTypeID uuid.UUID `json:"airconTypeId"`
	PriceCents   int64     `json:"priceCents"`
	Active       bool      `json:"active"`
}

// Timeslots

type CreateTimeslotRequest struct {
	StartTime string `json:"startTime" validate:"required"` // "09:00"
	EndTime   string `json:"endTime" validate:"required"`   // "12:00"
	Label     string `json:"label" validate:"omitempty,max=100"`
}

type TimeslotResponse struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
}
