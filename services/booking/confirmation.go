package booking

import (
	"fmt"
	"time"

	"slotbook/models"
)

// BuildConfirmation renders the guest-facing confirmation content for a
// committed reservation. The output is deterministic for a given reservation
// and timezone: the UID is the reservation ID and every field derives from
// stored state, so re-rendering after a retry yields an identical payload.
func BuildConfirmation(reservation *models.Reservation, member *models.Member, callerTZ string) (*models.Confirmation, error) {
	loc, err := time.LoadLocation(callerTZ)
	if err != nil {
		return nil, NewInvalidInputError(fmt.Sprintf("unknown timezone %q", callerTZ))
	}

	description := fmt.Sprintf("Booked by %s (%s).", reservation.GuestName, reservation.GuestEmail)
	if reservation.Notes != "" {
		description += "\n\n" + reservation.Notes
	}

	localStart := reservation.Interval.Start.In(loc)
	localEnd := reservation.Interval.End.In(loc)

	return &models.Confirmation{
		UID:         reservation.ID,
		MemberID:    member.ID,
		MemberName:  member.Name,
		MemberEmail: member.DisplayEmail,
		GuestName:   reservation.GuestName,
		GuestEmail:  reservation.GuestEmail,
		Start:       reservation.Interval.Start,
		End:         reservation.Interval.End,
		Summary:     fmt.Sprintf("Meeting with %s", member.Name),
		Description: description,
		Timezone:    callerTZ,
		LocalDate:   localStart.Format(models.DateLayout),
		LocalStart:  localStart.Format("15:04"),
		LocalEnd:    localEnd.Format("15:04"),
		CreatedAt:   reservation.CreatedAt,
	}, nil
}
