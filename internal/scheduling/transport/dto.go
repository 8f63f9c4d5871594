package transport

// TimeslotAvailabilityResponse reports availability for one timeslot.
type TimeslotAvailabilityResponse struct {
	TimeslotID     string   `json:"timeslotId"`
	Label          string   `json:"label"`
	AvailableCount int      `json:"availableCount"`
	IsAvailable    bool     `json:"isAvailable"`
	TechnicianIDs  []string `json:"technicianIds"`
}

// DayAvailabilityResponse is the availability view for a whole date.
type DayAvailabilityResponse struct {
	Date      string                         `json:"date"`
	Timeslots []TimeslotAvailabilityResponse `json:"timeslots"`
}

// RankedTechnicianResponse is one candidate in a ranking result.
type RankedTechnicianResponse struct {
	TechnicianID  string  `json:"technicianId"`
	FullName      string  `json:"fullName"`
	Rank          int     `json:"rank"`
	Score         float64 `json:"score"`
	ServiceRating float64 `json:"serviceRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// UnrankedTechnicianResponse is one roster entry in the degraded result.
type UnrankedTechnicianResponse struct {
	TechnicianID string `json:"technicianId"`
	FullName     string `json:"fullName"`
}

// RankingResponse carries either the ranked candidates or, when the
// ranking could not be computed, the unranked active roster.
type RankingResponse struct {
	Degraded    bool                         `json:"degraded"`
	Ranked      []RankedTechnicianResponse   `json:"ranked,omitempty"`
	Technicians []UnrankedTechnicianResponse `json:"technicians,omitempty"`
}
