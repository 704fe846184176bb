package app

import (
	"net/http"

	"secretto/internal/gateway"
	messagesvc "secretto/internal/services/message"
	profilesvc "secretto/internal/services/profile"
	transfersvc "secretto/internal/services/transfer"
	"secretto/internal/store/keyfile"
	"secretto/internal/vault"
)

// Wire bundles the stores, the gateway and the services for the CLI.
// Gateway, Messages and Transfer are nil when no server URL is
// configured; commands that need the server check for that.
type Wire struct {
	Keys     *keyfile.Store
	Vault    *vault.Vault
	Gateway  *gateway.Client
	Profile  *profilesvc.Service
	Messages *messagesvc.Service
	Transfer *transfersvc.Service
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	keys := keyfile.New(cfg.Home)
	v := vault.New()

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	w := &Wire{
		Keys:  keys,
		Vault: v,
		HTTP:  httpClient,
	}
	if cfg.ServerURL != "" {
		gw := gateway.New(cfg.ServerURL, httpClient)
		w.Gateway = gw
		w.Messages = messagesvc.New(v, gw)
		w.Transfer = transfersvc.New(v, w.Messages, gw)
		w.Profile = profilesvc.New(keys, v, gw)
	} else {
		w.Profile = profilesvc.New(keys, v, nil)
	}
	return w, nil
}
