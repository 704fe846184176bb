package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// send <session-id> <message>: encrypt and send one text message.
func sendCmd() *cobra.Command {
	var chatPassword string
	cmd := &cobra.Command{
		Use:   "send <session-id> <message>",
		Short: "Encrypt and send a text message",
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

			if err := wire.Messages.Send(ctx, stream, sess, user, args[1]); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&chatPassword, "chat-password", "", "password for a gated session")
	return cmd
}
