package sol

import (
	"context"
	"fmt"
	"net"
	"time"
)

// ForwardChecker reports whether a forwarded host port accepts connections
type ForwardChecker func(ctx context.Context, port int) bool

const (
	forwardAttempts = 3
	forwardInterval = 2 * time.Second
	forwardDialWait = time.Second
)

// DialForward tries to connect to 127.0.0.1:port a few times. Lima sets up
// forwarding asynchronously, so a freshly started instance may need a moment.
func DialForward(ctx context.Context, port int) bool {
	addr := net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port))
	d := net.Dialer{Timeout: forwardDialWait}

	for attempt := 0; attempt < forwardAttempts; attempt++ {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			return true
		}

		if attempt == forwardAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(forwardInterval):
		}
	}
	return false
}
