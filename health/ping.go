package health

import (
	"context"
	"time"
)

// Pinger is anything that can be pinged, such as a database or cache client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingIndicator adapts a Pinger. A zero timeout uses the monitor default.
func PingIndicator(name string, p Pinger, timeout time.Duration) Indicator {
	ind := Indicator{Name: name, Timeout: timeout}
	if p != nil {
		ind.Check = p.Ping
	}
	return ind
}

// PingerFunc adapts an ordinary function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
