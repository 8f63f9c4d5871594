package transport

// CreateTechnicianRequest creates a technician directory record.
type CreateTechnicianRequest struct {
	FullName     string `json:"fullName" validate:"required,min=2,max=120"`
	Phone        string `json:"phone" validate:"required,min=6,max=32"`
	MaxDailyJobs int    `json:"maxDailyJobs" validate:"required,min=1,max=20"`
}

// UpdateTechnicianRequest updates directory fields and availability flags.
type UpdateTechnicianRequest struct {
	FullName     *string `json:"fullName" validate:"omitempty,min=2,max=120"`
	Phone        *string `json:"phone" validate:"omitempty,min=6,max=32"`
	IsAvailable  *bool   `json:"isAvailable"`
	MaxDailyJobs *int    `json:"maxDailyJobs" validate:"omitempty,min=1,max=20"`
	Active       *bool   `json:"active"`
}

// CreateAvailabilityWindowRequest adds a recurring weekly working window.
// Weekday follows time.Weekday numbering, Sunday = 0.
type CreateAvailabilityWindowRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// TechnicianResponse is the API representation of a technician.
type TechnicianResponse struct {
	ID            string   `json:"id"`
	FullName      string   `json:"fullName"`
	Phone         string   `json:"phone"`
	IsAvailable   bool     `json:"isAvailable"`
	MaxDailyJobs  int      `json:"maxDailyJobs"`
	RatingAverage *float64 `json:"ratingAverage,omitempty"`
	Active        bool     `json:"active"`
	CreatedAt     string   `json:"createdAt"`
}

// AvailabilityWindowResponse is the API representation of a weekly window.
type AvailabilityWindowResponse struct {
	ID        string `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
