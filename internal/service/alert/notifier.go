package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
)

var ErrMissingCredentials = errors.New("missing notification credentials")

// NotificationDispatchError wraps any failure to hand the alert to the SMS provider.
type NotificationDispatchError struct {
	Err error
}

func (e *NotificationDispatchError) Error() string {
	return fmt.Sprintf("notification dispatch failed: %v", e.Err)
}

func (e *NotificationDispatchError) Unwrap() error {
	return e.Err
}

// Credentials are read from the environment; there are no built-in defaults.
type Credentials struct {
	AccountSID          string
	AuthToken           string
	From                string
	MessagingServiceSID string
}

func (c Credentials) missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_TOKEN")
	}
	if c.From == "" && c.MessagingServiceSID == "" {
		missing = append(missing, "TWILIO_SERVICE_SID or TWILIO_FROM")
	}
	return missing
}

// TwilioNotifier sends alerts as SMS through the Twilio REST API.
type TwilioNotifier struct {
	creds  Credentials
	client *twilio.RestClient
}

func NewTwilioNotifier(creds Credentials) *TwilioNotifier {
	n := &TwilioNotifier{creds: creds}
	if creds.AccountSID != "" && creds.AuthToken != "" {
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: creds.AccountSID,
			Password: creds.AuthToken,
		})
	}
	return n
}

func (n *TwilioNotifier) Send(ctx context.Context, msg dto.AlertMessage) error {
	missing := n.creds.missing()
	if msg.Destination == "" {
		missing = append(missing, "TARGET_PHONE")
	}
	if len(missing) > 0 {
		return &NotificationDispatchError{Err: fmt.Errorf("%w: %v", ErrMissingCredentials, missing)}
	}
	if err := ctx.Err(); err != nil {
		return &NotificationDispatchError{Err: err}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Destination)
	params.SetBody(msg.Body)
	if n.creds.MessagingServiceSID != "" {
		params.SetMessagingServiceSid(n.creds.MessagingServiceSID)
	} else {
		params.SetFrom(n.creds.From)
	}

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		return &NotificationDispatchError{Err: err}
	}
	return nil
}

// LogNotifier only writes the alert to the log. Used for dry runs.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg dto.AlertMessage) error {
	n.logger.Info("📨 [dry-run] SMS to %q: %s", msg.Destination, msg.Body)
	return nil
}
