package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// get-file <session-id> <message-id>: download an attachment blob and
// decrypt it to disk.
func getFileCmd() *cobra.Command {
	var (
		chatPassword string
		out          string
	)
	cmd := &cobra.Command{
		Use:   "get-file <session-id> <message-id>",
		Short: "Download and decrypt a file attachment",
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

			for _, msg := range sess.Messages {
				if msg.ID != args[1] {
					continue
				}
				data, name, err := wire.Transfer.Fetch(ctx, &sess, user, msg)
				if err != nil {
					return err
				}
				if out == "" {
					out = name
				}
				if err := os.WriteFile(out, data, 0o600); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
				return nil
			}
			return fmt.Errorf("no message %s in session %s", args[1], args[0])
		},
	}
	cmd.Flags().StringVar(&chatPassword, "chat-password", "", "password for a gated session")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: original file name)")
	return cmd
}
