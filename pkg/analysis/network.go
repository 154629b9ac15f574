package analysis

import (
	"context"
	"net"
	"time"
)

// NetworkStatus mirrors the published connectivity observation.
type NetworkStatus string

const (
	NetworkUnknown     NetworkStatus = "unknown"
	NetworkSatisfied   NetworkStatus = "satisfied"
	NetworkUnsatisfied NetworkStatus = "unsatisfied"
)

// NetworkChecker answers whether outbound connectivity is available right now.
type NetworkChecker interface {
	Online(ctx context.Context) bool
}

// NetworkCheckerFunc adapts a function to the NetworkChecker interface.
type NetworkCheckerFunc func(ctx context.Context) bool

// Online implements NetworkChecker.
func (f NetworkCheckerFunc) Online(ctx context.Context) bool {
	return f(ctx)
}

const (
	probeAddr    = "1.1.1.1:443"
	probeTimeout = 3 * time.Second
)

// dialChecker probes a well-known endpoint with a short TCP dial.
type dialChecker struct {
	addr    string
	timeout time.Duration
}

// NewDialChecker returns the default connectivity probe.
func NewDialChecker() NetworkChecker {
	return &dialChecker{addr: probeAddr, timeout: probeTimeout}
}

func (c *dialChecker) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
