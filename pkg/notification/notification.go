// Package notification routes a message to the channels it declares.
// The store's notifications (welcome email, dispatch email) implement
// Via() plus one To<Channel>() method per channel:
//
//	type OrderDispatched struct { Order models.Order }
//	func (n *OrderDispatched) Via() []string { return []string{"mail"} }
//	func (n *OrderDispatched) ToMail() notification.MailData {
//	    return notification.MailData{Subject: "...", Body: "<html>..."}
//	}
//
//	notification.Send(customer.Email, &OrderDispatched{Order: order})
//
// Besides mail there are slack and webhook channels for ops-facing
// alerts (a Slack ping when a big order lands, a webhook into a
// fulfilment partner).
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/mail"
)

// MailData is what the mail channel needs. To overrides the notifiable
// address when set; Text is the fallback when Body (HTML) is empty.
type MailData struct {
	To      string
	Subject string
	Body    string
	Text    string
}

// SlackData posts to an incoming webhook.
type SlackData struct {
	WebhookURL  string // falls back to the configured default
	Text        string
	Attachments []SlackAttachment
}

type SlackAttachment struct {
	Color  string `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// WebhookData posts an arbitrary JSON payload to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// Notification names its channels; the per-channel payload comes from
// the matching optional interface below.
type Notification interface {
	Via() []string
}

type Mailable interface {
	ToMail() MailData
}

type Slackable interface {
	ToSlack() SlackData
}

type Webhookable interface {
	ToWebhook() WebhookData
}

var defaultSlackWebhook string

// SetSlackWebhook configures the fallback Slack webhook URL.
func SetSlackWebhook(url string) { defaultSlackWebhook = url }

// Send delivers n on every channel Via() lists. Channels fail
// independently: one bad webhook does not stop the email.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync fires Send on a goroutine; failures are only logged.
func SendAsync(address string, n Notification) {
	go func() {
		for _, e := range Send(address, n) {
			logger.Error("notification: async error", "error", e)
		}
	}()
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(address, m.ToMail())
	case "slack":
		s, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		return sendSlack(s.ToSlack())
	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(wh.ToWebhook())
	}
	return fmt.Errorf("notification: unknown channel %q", channel)
}

func sendMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}
	body := d.Body
	if body == "" {
		body = d.Text
	}
	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

func sendSlack(d SlackData) error {
	url := d.WebhookURL
	if url == "" {
		url = defaultSlackWebhook
	}
	if url == "" {
		return fmt.Errorf("notification: slack webhook URL not configured")
	}

	raw, err := json.Marshal(struct {
		Text        string            `json:"text,omitempty"`
		Attachments []SlackAttachment `json:"attachments,omitempty"`
	}{d.Text, d.Attachments})
	if err != nil {
		return fmt.Errorf("notification: slack marshal: %w", err)
	}

	return postJSON(url, raw, nil, 5*time.Second, "slack")
}

func sendWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}
	raw, err := json.Marshal(d.Payload)
	if err != nil {
		return fmt.Errorf("notification: webhook marshal: %w", err)
	}
	return postJSON(d.URL, raw, d.Headers, 10*time.Second, "webhook")
}

func postJSON(url string, body []byte, headers map[string]string, timeout time.Duration, channel string) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notification: %s request: %w", channel, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: %s post: %w", channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: %s returned HTTP %d", channel, resp.StatusCode)
	}
	return nil
}
