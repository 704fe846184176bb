package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// send-file <session-id> <path>: encrypt a file under a one-time key,
// upload the blob and send the envelope.
func sendFileCmd() *cobra.Command {
	var chatPassword string
	cmd := &cobra.Command{
		Use:   "send-file <session-id> <path>",
		Short: "Encrypt and send a file attachment",
		Args:  cobra.ExactArgs(2),
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

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := wire.Gateway.Session(ctx, args[0], chatPassword)
			if err != nil {
				return err
			}

			stream, err := wire.Gateway.Dial(ctx, user)
			if err != nil {
				return err
			}
			defer stream.Close()

			name := filepath.Base(args[1])
			if err := wire.Transfer.Send(ctx, stream, sess, user, name, data); err != nil {
				return err
			}
			fmt.Printf("sent %s (%d bytes)\n", name, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&chatPassword, "chat-password", "", "password for a gated session")
	return cmd
}
