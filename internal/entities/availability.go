package entities

import "tucancha/internal/db"

// AvailabilityRequest is the create/update payload for an availability
// record. Available defaults to true when omitted; the reservation service
// posts it as false to mark an interval occupied.
type AvailabilityRequest struct {
	CourtID   int64  `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available *bool  `json:"available,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// AvailabilityResponse renders a record with interval timestamps as strings
// in the shared wire layout. The occupancy release path compares these
// strings literally, so they must never carry zone suffixes.
type AvailabilityResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"court_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func ToAvailabilityResponse(rec *db.AvailabilityRecord) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        rec.ID,
		CourtID:   rec.CourtID,
		StartTime: FormatTime(rec.StartTime),
		EndTime:   FormatTime(rec.EndTime),
		Available: rec.Available,
		Reason:    rec.Reason,
		CreatedAt: FormatTime(rec.CreatedAt),
		UpdatedAt: FormatTime(rec.UpdatedAt),
	}
}

func ToAvailabilityResponses(recs []db.AvailabilityRecord) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(recs))
	for i := range recs {
		out = append(out, ToAvailabilityResponse(&recs[i]))
	}
	return out
}
