package commands

import (
	"context"
	"fmt"

	"secretto/internal/domain"
)

// renderMessage decrypts one transcript entry for display. A message that
// fails to open renders as a placeholder so the rest of the transcript
// still shows.
func renderMessage(ctx context.Context, sess *domain.Session, me domain.UserID, msg domain.Message) string {
	ts := msg.Timestamp.Local().Format("15:04:05")
	switch msg.Content.Kind {
	case domain.FileContent:
		if msg.Content.File == nil {
			return fmt.Sprintf("[%s] %s: [corrupt file message]", ts, msg.Sender)
		}
		return fmt.Sprintf("[%s] %s: [file %q, fetch with: get-file %s %s]",
			ts, msg.Sender, msg.Content.File.FileName, sess.ID, msg.ID)
	default:
		pt, err := wire.Messages.Decrypt(ctx, sess, me, msg)
		if err != nil {
			return fmt.Sprintf("[%s] %s: [undecryptable message]", ts, msg.Sender)
		}
		return fmt.Sprintf("[%s] %s: %s", ts, msg.Sender, pt)
	}
}
