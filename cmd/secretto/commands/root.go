package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"secretto/internal/app"
	"secretto/internal/domain"
)

var (
	home     string
	secret   string
	server   string
	username string
	wire     *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "secretto",
		Short: "Ephemeral end-to-end encrypted chat CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".secretto")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			wire, err = app.NewWire(app.Config{Home: home, ServerURL: server})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.secretto)")
	root.PersistentFlags().StringVarP(&secret, "secret", "s", "", "secret protecting the local keypair")
	root.PersistentFlags().StringVar(&server, "server", "", "chat server base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVarP(&username, "user", "u", "", "your user id")

	root.AddCommand(initCmd(), fingerprintCmd(), publishCmd(), startCmd(),
		sessionsCmd(), sendCmd(), listenCmd(), sendFileCmd(), getFileCmd())
	return root.Execute()
}

func requireServer() error {
	if wire.Gateway == nil {
		return fmt.Errorf("no server configured. use --server")
	}
	return nil
}

func requireUser() (domain.UserID, error) {
	if username == "" {
		return "", fmt.Errorf("--user required")
	}
	return domain.UserID(username), nil
}

// unlock loads the wrapped bundle and unlocks the vault for this run.
func unlock() error {
	if secret == "" {
		return fmt.Errorf("secret required (-s)")
	}
	return wire.Profile.Unlock(secret)
}
