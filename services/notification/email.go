package notification

import (
	"fmt"
	"strings"

	"slotbook/models"
)

// RenderEmail builds the confirmation email subject and body. Like the invite,
// the output is deterministic for a given confirmation.
func RenderEmail(confirmation models.Confirmation) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s", confirmation.Summary)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", confirmation.GuestName)
	fmt.Fprintf(&b, "Your meeting with %s is confirmed.\n\n", confirmation.MemberName)
	fmt.Fprintf(&b, "When: %s, %s - %s (%s)\n",
		confirmation.LocalDate, confirmation.LocalStart, confirmation.LocalEnd, confirmation.Timezone)
	if confirmation.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", confirmation.Description)
	}
	fmt.Fprintf(&b, "\nA calendar invite is attached. Reference: %s\n", confirmation.UID)
	return subject, b.String()
}
