package notification

import (
	"context"
	"fmt"
	"time"

	"freshlens-backend/internal/utils"

	"github.com/go-resty/resty/v2"
)

type (
	// Notifier sends one push message to one device token. Fire-and-forget:
	// callers decide whether a transport error matters.
	Notifier interface {
		Send(ctx context.Context, token string, title string, body string) error
	}

	fcmClient struct {
		client    *resty.Client
		serverKey string
	}

	fcmMessage struct {
		To           string          `json:"to"`
		Notification fcmNotification `json:"notification"`
	}

	fcmNotification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
)

func NewFCMClient() Notifier {
	return &fcmClient{
		client: resty.New().
			SetBaseURL("https://fcm.googleapis.com").
			SetTimeout(10 * time.Second),
		serverKey: utils.GetConfig("FCM_SERVER_KEY"),
	}
}

func (c *fcmClient) Send(ctx context.Context, token string, title string, body string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(fcmMessage{
			To:           token,
			Notification: fcmNotification{Title: title, Body: body},
		}).
		Post("/fcm/send")
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("fcm send failed: %s - %s", resp.Status(), resp.String())
	}
	return nil
}
