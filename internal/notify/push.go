package notify

import (
	"context"
	"fmt"
	"log"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

type pushPublisher interface {
	Publish(message *expo.PushMessage) (expo.PushResponse, error)
}

type PushNotifier struct {
	client pushPublisher
}

func NewPushNotifier() *PushNotifier {
	return &PushNotifier{client: expo.NewPushClient(nil)}
}

// Notify sends to every valid Expo token of the recipient; malformed tokens
// are logged and skipped.
func (n *PushNotifier) Notify(ctx context.Context, msg Message) error {
	var tokens []expo.ExponentPushToken
	for _, raw := range msg.Recipient.PushTokens {
		tok, err := expo.NewExponentPushToken(raw)
		if err != nil {
			log.Printf("push: invalid token %q: %v", raw, err)
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := map[string]string{"type": string(msg.Type)}
	for k, v := range msg.Data {
		data[k] = v
	}

	resp, err := n.client.Publish(&expo.PushMessage{
		To:       tokens,
		Title:    msg.Title,
		Body:     msg.Body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("publish push: %w", err)
	}
	if err := resp.ValidateResponse(); err != nil {
		return fmt.Errorf("push rejected: %w", err)
	}
	return nil
}
