package models

import "time"

// Team groups the members whose availability is published together.
type Team struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Member is a bookable person on a team. Members are never hard-deleted while
// reservations reference them; Disabled hides them from booking instead.
type Member struct {
	ID           string    `bson:"id" json:"id"`
	TeamID       string    `bson:"team_id" json:"team_id"`
	Name         string    `bson:"name" json:"name"`
	DisplayEmail string    `bson:"display_email,omitempty" json:"display_email,omitempty"`
	Timezone     string    `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Berlin"
	CalendarRef  string    `bson:"calendar_ref,omitempty" json:"calendar_ref,omitempty"`
	Disabled     bool      `bson:"disabled" json:"disabled"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
