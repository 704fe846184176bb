// Package commands defines the secretto CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init         Create the local keypair and publish the public half
//   - fingerprint  Print the public key fingerprint
//   - publish      Re-publish the public key to a server directory
//   - start        Start an ephemeral chat session with a peer
//   - sessions     List your sessions and their transcripts
//   - send         Encrypt and send a text message
//   - listen       Stream and decrypt incoming messages
//   - send-file    Encrypt and send a file attachment
//   - get-file     Download and decrypt a file attachment
//
// # Implementation
//
// The root command builds a dependency graph (key store, vault, gateway,
// services) before any subcommand runs, so handlers can share an app
// context with one HTTP client.
package commands
