package dto

// ExportSlot is one merged display slot to serialize.
type ExportSlot struct {
	Start         string `json:"start"` // "HH:MM"
	End           string `json:"end"`   // "HH:MM"
	DurationLabel string `json:"duration_label"`
}

// ExportDay is one day's merged slots.
type ExportDay struct {
	Date  string       `json:"date" validate:"required"` // "YYYY-MM-DD"
	Slots []ExportSlot `json:"slots"`
}

// ExportSlotsRequest asks for a plain-text rendering of computed slots,
// optionally stored for sharing.
type ExportSlotsRequest struct {
	Title string      `json:"title" validate:"required"`
	Days  []ExportDay `json:"days" validate:"required"`
	Store bool        `json:"store"`
}

// ExportSlotsResponse returns the rendered text and, when stored, the
// object key it was uploaded under.
type ExportSlotsResponse struct {
	Text      string `json:"text"`
	ObjectKey string `json:"object_key,omitempty"`
}
