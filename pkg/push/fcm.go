package push

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Sender delivers a web-push notification to a device token. Implementations
// must be safe to call with a nil receiver check already done by callers.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender initializes a Firebase Cloud Messaging sender from the
// credentials file at FIREBASE_CREDENTIALS. Push is an optional feature:
// callers treat a nil Sender as "push disabled".
func NewFCMSender(ctx context.Context) (Sender, error) {
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS")
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS is not set")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	log.Println("Firebase messaging client initialized")
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}

	return nil
}
