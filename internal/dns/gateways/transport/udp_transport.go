package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/services/resolver"
)

// UDPTransport implements resolver.ServerTransport for standard DNS over UDP (RFC 1035).
// Every datagram is handled on its own goroutine.
type UDPTransport struct {
	addr    string
	maxSize int
	conn    *net.UDPConn
	logger  log.Logger

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, opts Options, logger log.Logger) *UDPTransport {
	opts = opts.withDefaults()
	return &UDPTransport{
		addr:    addr,
		maxSize: opts.MaxUDPSize,
		logger:  logger,
	}
}

// Start binds the UDP socket and starts the packet handling loop.
// The transport stops when ctx is cancelled or Stop is called.
func (t *UDPTransport) Start(ctx context.Context, handler resolver.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.stopCh = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": string(TransportUDP),
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	go t.listenLoop(ctx, conn, handler)
	go t.stopOnDone(ctx, t.stopCh)

	return nil
}

// Stop gracefully shuts down the UDP transport.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)
	t.running = false

	closeErr := t.conn.Close()
	if closeErr != nil {
		t.logger.Warn(map[string]any{
			"error": closeErr.Error(),
		}, "Error closing UDP connection")
	}

	t.logger.Info(map[string]any{
		"transport": string(TransportUDP),
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the bound address while running, and the configured address otherwise.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.running {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

func (t *UDPTransport) stopOnDone(ctx context.Context, stopCh <-chan struct{}) {
	select {
	case <-ctx.Done():
		t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
		_ = t.Stop()
	case <-stopCh:
	}
}

// listenLoop reads datagrams until the socket is closed.
func (t *UDPTransport) listenLoop(ctx context.Context, conn *net.UDPConn, handler resolver.Handler) {
	buffer := make([]byte, udpReadBuffer)

	for {
		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			t.mu.RLock()
			running := t.running
			t.mu.RUnlock()
			if !running {
				return
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])
		go t.handlePacket(ctx, conn, packet, clientAddr, handler)
	}
}

// handlePacket resolves one datagram and sends the reply, if any.
func (t *UDPTransport) handlePacket(ctx context.Context, conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr, handler resolver.Handler) {
	logger := t.logger.With(map[string]any{
		"transport": string(TransportUDP),
		"client":    clientAddr.String(),
	})
	logger.Debug(map[string]any{
		"size": len(data),
		"raw":  fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	reply, err := handler.Resolve(ctx, logger, data, t.maxSize)
	if err != nil {
		metrics.ObserveDropped(string(TransportUDP))
		logger.Debug(map[string]any{
			"error": err.Error(),
			"size":  len(data),
		}, "Dropping DNS query")
		return
	}

	if _, err := conn.WriteToUDP(reply, clientAddr); err != nil {
		logger.Error(map[string]any{
			"error": err.Error(),
		}, "Failed to send DNS response")
		return
	}
	observeReply(TransportUDP, reply)

	logger.Debug(map[string]any{
		"size": len(reply),
	}, "Sent DNS response")
}
