package alert

import (
	"context"
	"fmt"
	"time"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
)

// FallbackMessage is sent when the location of the alert cannot be determined.
const FallbackMessage = "Poaching detected in wildlife area - immediate attention required"

// DefaultLookupTimeout bounds the geolocation call.
const DefaultLookupTimeout = 5 * time.Second

type Locator interface {
	Locate(ctx context.Context) (dto.Location, error)
}

type Notifier interface {
	Send(ctx context.Context, msg dto.AlertMessage) error
}

// Dispatcher composes and sends the alert. Lookup and send fail independently
// and neither failure leaves the dispatcher.
type Dispatcher struct {
	locator       Locator
	notifier      Notifier
	destination   string
	lookupTimeout time.Duration
	logger        *logger.Logger
}

func NewDispatcher(locator Locator, notifier Notifier, destination string, lookupTimeout time.Duration, logger *logger.Logger) *Dispatcher {
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	return &Dispatcher{
		locator:       locator,
		notifier:      notifier,
		destination:   destination,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Dispatch does nothing unless active.
func (d *Dispatcher) Dispatch(ctx context.Context, active bool) dto.DispatchResult {
	if !active {
		return dto.DispatchResult{}
	}

	msg := dto.AlertMessage{
		Body:        d.composeBody(ctx),
		Destination: d.destination,
	}
	result := dto.DispatchResult{Attempted: true, Message: msg}

	if d.notifier == nil {
		d.logger.Error("SMS sending failed: no notifier configured")
		return result
	}

	if err := d.notifier.Send(ctx, msg); err != nil {
		d.logger.Error("SMS sending failed: %v", err)
		return result
	}

	d.logger.Info("📨 Alert sent to %s", msg.Destination)
	result.Sent = true
	return result
}

func (d *Dispatcher) composeBody(ctx context.Context) string {
	if d.locator == nil {
		return FallbackMessage
	}

	lookupCtx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	location, err := d.locator.Locate(lookupCtx)
	if err != nil {
		d.logger.Warning("Location retrieval failed: %v", err)
		return FallbackMessage
	}
	return LocationMessage(location)
}

// LocationMessage formats an alert that carries the lookup result.
func LocationMessage(loc dto.Location) string {
	return fmt.Sprintf("The region of poaching is %s %s latitude is %v longitude is %v",
		loc.Region, loc.City, loc.Lat, loc.Lon)
}
