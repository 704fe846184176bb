package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// publish: re-upload the stored public key, e.g. after pointing the CLI
// at a fresh server.
func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish your public key to the server directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(); err != nil {
				return err
			}
			user, err := requireUser()
			if err != nil {
				return err
			}
			if err := wire.Profile.Publish(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Println("public key published")
			return nil
		},
	}
}
