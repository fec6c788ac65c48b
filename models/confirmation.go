package models

import "time"

// Confirmation is the guest-facing result of a successful booking. Its content
// is authoritative and deterministic for a given reservation: rendering it to
// an email or a calendar-invite file must always produce the same payload.
// Delivery is handled by the notification worker, not here.
type Confirmation struct {
	UID         string    `json:"uid"` // stable: the reservation ID
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email,omitempty"`
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	Start       time.Time `json:"start"` // UTC
	End         time.Time `json:"end"`   // UTC
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`

	// Display fields in the guest's requested timezone.
	Timezone   string `json:"timezone"`
	LocalDate  string `json:"local_date"`
	LocalStart string `json:"local_start"`
	LocalEnd   string `json:"local_end"`

	CreatedAt time.Time `json:"created_at"`
}
