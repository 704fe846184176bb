package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a keypair, wrap it under your secret and publish the public half",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("secret required (-s)")
			}
			user, err := requireUser()
			if err != nil {
				return err
			}
			fp, err := wire.Profile.Setup(cmd.Context(), user, secret)
			if err != nil {
				return err
			}
			fmt.Printf("Profile created.\nFingerprint: %s\n", fp)
			if wire.Gateway == nil {
				fmt.Println("No server configured; public key not published yet.")
			}
			return nil
		},
	}
}
