package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/haukened/dirdns/internal/dns/common/clock"
	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
	"github.com/haukened/dirdns/internal/dns/services/resolver"
)

// TCPTransport implements resolver.ServerTransport for DNS over TCP.
// Each message is prefixed with a 2-byte big-endian length. A connection may carry several
// queries in sequence; it is closed after MaxQueriesPerConn messages or IdleTimeout of
// silence.
type TCPTransport struct {
	addr        string
	idleTimeout time.Duration
	maxQueries  int
	clock       clock.Clock
	logger      log.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewTCPTransport creates a new TCP transport instance.
func NewTCPTransport(addr string, opts Options, logger log.Logger) *TCPTransport {
	opts = opts.withDefaults()
	return &TCPTransport{
		addr:        addr,
		idleTimeout: opts.IdleTimeout,
		maxQueries:  opts.MaxQueriesPerConn,
		clock:       opts.Clock,
		logger:      logger,
	}
}

// Start listens on the configured address and accepts connections in the background.
// The transport stops when ctx is cancelled or Stop is called.
func (t *TCPTransport) Start(ctx context.Context, handler resolver.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("TCP transport already running")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on TCP %s: %w", t.addr, err)
	}
	t.listener = ln
	t.conns = map[net.Conn]struct{}{}
	t.running = true
	t.stopCh = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": string(TransportTCP),
		"address":   ln.Addr().String(),
	}, "DNS transport started")

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.acceptLoop(ctx, ln, handler)
	}()
	go func(stopCh <-chan struct{}) {
		select {
		case <-ctx.Done():
			_ = t.Stop()
		case <-stopCh:
		}
	}(t.stopCh)
	return nil
}

// Stop closes the listener and every open connection, then waits for handlers to return.
func (t *TCPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	close(t.stopCh)
	err := t.listener.Close()
	for c := range t.conns {
		_ = c.Close()
	}
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info(map[string]any{
		"transport": string(TransportTCP),
		"address":   t.addr,
	}, "DNS transport stopped")
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Address returns the bound address while running, and the configured address otherwise.
func (t *TCPTransport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.listener.Addr().String()
	}
	return t.addr
}

func (t *TCPTransport) acceptLoop(ctx context.Context, ln net.Listener, handler resolver.Handler) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			t.logger.Warn(map[string]any{"error": err.Error()}, "Failed to accept TCP connection")
			continue
		}
		if !t.track(conn) {
			_ = conn.Close()
			return
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			defer t.untrack(conn)
			t.handleConnection(ctx, conn, handler)
		}()
	}
}

func (t *TCPTransport) track(conn net.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	t.conns[conn] = struct{}{}
	return true
}

func (t *TCPTransport) untrack(conn net.Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, conn)
	_ = conn.Close()
}

// handleConnection serves queries on one connection until the client goes away, the idle
// deadline passes, or the query cap is reached.
func (t *TCPTransport) handleConnection(ctx context.Context, conn net.Conn, handler resolver.Handler) {
	logger := t.logger.With(map[string]any{
		"transport": string(TransportTCP),
		"client":    conn.RemoteAddr().String(),
	})

	for range t.maxQueries {
		if ctx.Err() != nil {
			return
		}
		_ = conn.SetDeadline(t.clock.Now().Add(t.idleTimeout))

		msg, err := readMessage(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug(map[string]any{"error": err.Error()}, "Closing TCP connection")
			}
			return
		}

		reply, err := handler.Resolve(ctx, logger, msg, 0)
		if err != nil {
			metrics.ObserveDropped(string(TransportTCP))
			logger.Debug(map[string]any{
				"error": err.Error(),
				"size":  len(msg),
			}, "Dropping DNS query")
			continue
		}
		if err := writeMessage(conn, reply); err != nil {
			logger.Error(map[string]any{"error": err.Error()}, "Failed to send DNS response")
			return
		}
		observeReply(TransportTCP, reply)
	}
	logger.Debug(map[string]any{"max_queries": t.maxQueries}, "TCP connection query limit reached")
}

// readMessage reads one length-prefixed message. A zero length is an error.
func readMessage(r io.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	if n == 0 {
		return nil, fmt.Errorf("zero-length message")
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("read message body: %w", err)
	}
	return msg, nil
}

// writeMessage writes msg with its length prefix in one call.
func writeMessage(conn net.Conn, msg []byte) error {
	if len(msg) > wire.MaxMessageSize {
		return fmt.Errorf("message of %d bytes exceeds %d", len(msg), wire.MaxMessageSize)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(msg)))
	bufs := net.Buffers{lenBuf[:], msg}
	_, err := bufs.WriteTo(conn)
	return err
}
