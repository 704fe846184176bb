package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"secretto/internal/domain"
)

// listen: keep a live event channel open, printing decrypted messages as
// they arrive. Existing transcripts are printed first for catch-up.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Stream and decrypt incoming messages",
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
			stream, err := wire.Gateway.Dial(ctx, user)
			if err != nil {
				return err
			}
			defer stream.Close()

			cache := make(map[string]domain.Session)
			sessions, err := wire.Gateway.Sessions(ctx, user)
			if err != nil {
				return err
			}
			for _, sess := range sessions {
				cache[sess.ID] = sess
				for _, msg := range sess.Messages {
					fmt.Println(renderMessage(ctx, &sess, user, msg))
				}
			}
			fmt.Println("listening...")

			for {
				ev, err := stream.Next()
				if err != nil {
					return err
				}
				handleEvent(ctx, cache, user, ev)
			}
		},
	}
}

func handleEvent(ctx context.Context, cache map[string]domain.Session, user domain.UserID, ev domain.Event) {
	switch ev.Name {
	case domain.EventReceiveMessage:
		var payload domain.ReceiveMessagePayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			fmt.Printf("[malformed %s event]\n", ev.Name)
			return
		}
		sess, err := sessionByID(ctx, cache, user, payload.SessionID)
		if err != nil {
			fmt.Printf("[message for unknown session %s]\n", payload.SessionID)
			return
		}
		fmt.Println(renderMessage(ctx, sess, user, payload.Message))
	case domain.EventNewChat:
		var sess domain.Session
		if err := json.Unmarshal(ev.Data, &sess); err != nil {
			fmt.Printf("[malformed %s event]\n", ev.Name)
			return
		}
		cache[sess.ID] = sess
		fmt.Printf("New session %s with %s.\n", sess.ID, sess.Counterpart(user))
	case domain.EventChatAborted:
		var payload domain.ChatAbortedPayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		delete(cache, payload.SessionID)
		fmt.Printf("Session %s expired and was deleted.\n", payload.SessionID)
	}
}

// sessionByID serves from the local cache, refreshing it once for
// sessions created while we were listening.
func sessionByID(ctx context.Context, cache map[string]domain.Session, user domain.UserID, id string) (*domain.Session, error) {
	if sess, ok := cache[id]; ok {
		return &sess, nil
	}
	sessions, err := wire.Gateway.Sessions(ctx, user)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		cache[sess.ID] = sess
	}
	if sess, ok := cache[id]; ok {
		return &sess, nil
	}
	return nil, domain.ErrSessionNotFound
}
