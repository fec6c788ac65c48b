package notification

import (
	"bytes"
	"testing"
)

func TestInviteAttachment(t *testing.T) {
	t.Parallel()

	confirmation := testConfirmation(t)
	invite, err := RenderInvite(confirmation)
	if err != nil {
		t.Fatalf("RenderInvite failed: %v", err)
	}

	attachment := inviteAttachment(confirmation, invite)
	if attachment.Filename != "res-1.ics" {
		t.Fatalf("unexpected attachment filename: %q", attachment.Filename)
	}
	if attachment.ContentType != "text/calendar" {
		t.Fatalf("unexpected content type: %q", attachment.ContentType)
	}
	if !bytes.Equal(attachment.Content, invite) {
		t.Fatal("attachment content does not match the rendered invite")
	}
}
