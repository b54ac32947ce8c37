// Package connectivity answers "is the backend reachable right now". The
// orchestrator asks the one-shot form before every fetch decision; the
// Watcher exists for UI that wants an online/offline indicator.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Oracle reports current reachability.
type Oracle interface {
	Online(ctx context.Context) bool
}

// Status is one reachability observation.
type Status struct {
	Connected bool
}

// DialOracle probes reachability with a TCP dial against the API host.
type DialOracle struct {
	addr    string
	timeout time.Duration
}

// NewDialOracle derives the probe address from the API base URL.
func NewDialOracle(baseURL string) (*DialOracle, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	return &DialOracle{addr: host, timeout: 2 * time.Second}, nil
}

func (o *DialOracle) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: o.timeout}
	conn, err := d.DialContext(ctx, "tcp", o.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Watcher polls an Oracle and notifies subscribers on every change.
type Watcher struct {
	oracle   Oracle
	interval time.Duration
}

func NewWatcher(oracle Oracle, interval time.Duration) *Watcher {
	return &Watcher{
		oracle:   oracle,
		interval: interval,
	}
}

// Subscribe returns a channel of status changes and an unsubscribe func.
// The current status is delivered immediately.
func (w *Watcher) Subscribe(ctx context.Context) (<-chan Status, func()) {
	ch := make(chan Status, 1)
	done := make(chan struct{})

	go func() {
		defer close(ch)

		last := w.oracle.Online(ctx)
		ch <- Status{Connected: last}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				current := w.oracle.Online(ctx)
				if current != last {
					last = current
					select {
					case ch <- Status{Connected: current}:
					case <-done:
						return
					}
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once bool
	return ch, func() {
		if !once {
			once = true
			close(done)
		}
	}
}
