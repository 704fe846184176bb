package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"secretto/internal/gateway"
)

// start <peer>: open a new two-party session. The server notifies the
// peer over their live event channel if they are online.
func startCmd() *cobra.Command {
	var (
		name         string
		chatPassword string
		ttl          time.Duration
	)
	cmd := &cobra.Command{
		Use:   "start <peer>",
		Short: "Start an ephemeral chat session with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(); err != nil {
				return err
			}
			user, err := requireUser()
			if err != nil {
				return err
			}
			peer := args[0]

			sess, err := wire.Gateway.CreateSession(cmd.Context(), gateway.CreateSessionRequest{
				Name:         name,
				Participants: [2]string{user.String(), peer},
				Password:     chatPassword,
				TTL:          ttl,
			})
			if err != nil {
				return fmt.Errorf("starting session with %q: %w", peer, err)
			}

			fmt.Printf("Session %s created with %s.\n", sess.ID, peer)
			if sess.ExpiresAt != nil {
				fmt.Printf("Expires at %s.\n", sess.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the session")
	cmd.Flags().StringVar(&chatPassword, "chat-password", "", "optional password gating the session")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "session lifetime (e.g. 24h); zero means no expiry")
	return cmd
}
