package models

// Slot is a transient candidate bookable interval produced by the slot
// resolver. It carries no identity and is never persisted: whatever the client
// picks is re-validated against fresh availability at reservation time.
type Slot struct {
	MemberID string   `json:"member_id"`
	Interval Interval `json:"interval"`

	// Display fields in the caller's requested timezone. The underlying
	// instants in Interval remain UTC.
	Date       string `json:"date"` // DateLayout in the caller's zone
	StartLabel string `json:"start"`
	EndLabel   string `json:"end"`
	Timezone   string `json:"timezone"`
}
