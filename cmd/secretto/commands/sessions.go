package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// sessions: list the caller's sessions with their decrypted transcripts.
func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List your sessions and their transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(); err != nil {
				return err
			}
			user, err := requireUser()
			if err != nil {
				return err
			}
			if err := unlock(); err != nil {
				return err
			}

			sessions, err := wire.Gateway.Sessions(cmd.Context(), user)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions.")
				return nil
			}

			for _, sess := range sessions {
				name := sess.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%s  %s  with %s", sess.ID, name, sess.Counterpart(user))
				if sess.ExpiresAt != nil {
					fmt.Printf("  expires %s", sess.ExpiresAt.Format(time.RFC3339))
				}
				fmt.Println()
				for _, msg := range sess.Messages {
					fmt.Printf("  %s\n", renderMessage(cmd.Context(), &sess, user, msg))
				}
			}
			return nil
		},
	}
}
