package notification

import (
	"bytes"
	"fmt"

	"slotbook/models"

	"github.com/emersion/go-ical"
)

// RenderInvite renders the confirmation as a calendar-invite file. The output
// is deterministic for a given confirmation: the UID is the reservation ID and
// DTSTAMP is the reservation's creation time, never "now".
func RenderInvite(confirmation models.Confirmation) ([]byte, error) {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, confirmation.UID)
	ve.Props.SetText(ical.PropSummary, confirmation.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, confirmation.CreatedAt.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, confirmation.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, confirmation.End.UTC())
	if confirmation.Description != "" {
		ve.Props.SetText(ical.PropDescription, confirmation.Description)
	}

	// ORGANIZER and ATTENDEE are CAL-ADDRESS properties; the value is set
	// directly so no VALUE=TEXT parameter is stamped on them.
	if confirmation.MemberEmail != "" {
		organizer := ical.NewProp(ical.PropOrganizer)
		organizer.Value = fmt.Sprintf("mailto:%s", confirmation.MemberEmail)
		ve.Props.Add(organizer)
	}

	attendee := ical.NewProp(ical.PropAttendee)
	attendee.Value = fmt.Sprintf("mailto:%s", confirmation.GuestEmail)
	ve.Props.Add(attendee)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//slotbook//EN")
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar invite: %w", err)
	}
	return buf.Bytes(), nil
}
