// Package transport carries DNS messages between the network and a resolver.Handler.
// Transports own sockets, framing, deadlines, and cancellation; the handler only sees
// raw message bytes.
package transport

import (
	"time"

	"github.com/haukened/dirdns/internal/dns/common/clock"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
)

// TransportType represents the different types of DNS transport protocols supported.
type TransportType string

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP TransportType = "udp"

	// TransportTCP represents DNS over TCP with 2-byte length framing (RFC 1035 §4.2.2)
	TransportTCP TransportType = "tcp"
)

// Defaults applied by NewTransport for zero Options fields.
const (
	DefaultMaxUDPSize        = 4096
	DefaultIdleTimeout       = 10 * time.Second
	DefaultMaxQueriesPerConn = 100
)

// udpReadBuffer holds the largest datagram a client can send.
const udpReadBuffer = 64 * 1024

// Options tunes transport behavior.
type Options struct {
	// MaxUDPSize is the largest reply sent in one datagram.
	MaxUDPSize int
	// IdleTimeout closes a TCP connection that has been quiet this long.
	IdleTimeout time.Duration
	// MaxQueriesPerConn closes a TCP connection after this many messages.
	MaxQueriesPerConn int
	// Clock drives TCP deadlines.
	Clock clock.Clock
}

func (o Options) withDefaults() Options {
	if o.MaxUDPSize <= 0 {
		o.MaxUDPSize = DefaultMaxUDPSize
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	if o.MaxQueriesPerConn <= 0 {
		o.MaxQueriesPerConn = DefaultMaxQueriesPerConn
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
	return o
}

// observeReply counts a sent reply by its response code.
func observeReply(transport TransportType, reply []byte) {
	_, flags, err := wire.PeekHeader(reply)
	if err != nil {
		return
	}
	metrics.ObserveReply(string(transport), flags.RCode.String())
}
