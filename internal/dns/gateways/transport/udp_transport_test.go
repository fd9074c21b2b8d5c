package transport

import (
	"context"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dirdns/internal/dns/common/log"
)

func startUDP(t *testing.T, opts Options, sizes chan<- int) *UDPTransport {
	t.Helper()
	tr := NewUDPTransport("127.0.0.1:0", opts, log.NewNoopLogger())
	require.NoError(t, tr.Start(context.Background(), echoHandler(t, sizes)))
	t.Cleanup(func() { _ = tr.Stop() })
	return tr
}

func TestUDPTransport_Exchange(t *testing.T) {
	sizes := make(chan int, 1)
	tr := startUDP(t, Options{MaxUDPSize: 1232}, sizes)

	c := &dns.Client{Net: "udp", Timeout: 2 * time.Second}
	resp, _, err := c.Exchange(newQuery("www.example.com."), tr.Address())
	require.NoError(t, err)
	require.Len(t, resp.Answer, 1)
	assert.Equal(t, "www.example.com.", resp.Answer[0].Header().Name)
	assert.Equal(t, 1232, <-sizes)
}

func TestUDPTransport_DropsOnHandlerError(t *testing.T) {
	tr := startUDP(t, Options{}, nil)

	c := &dns.Client{Net: "udp", Timeout: 200 * time.Millisecond}
	_, _, err := c.Exchange(newQuery("drop.example.com."), tr.Address())
	assert.Error(t, err)

	// The transport keeps serving after a drop.
	c.Timeout = 2 * time.Second
	resp, _, err := c.Exchange(newQuery("ok.example.com."), tr.Address())
	require.NoError(t, err)
	assert.Len(t, resp.Answer, 1)
}

func TestUDPTransport_StartStop(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:0", Options{}, log.NewNoopLogger())
	assert.Equal(t, "127.0.0.1:0", tr.Address())
	assert.NoError(t, tr.Stop())

	require.NoError(t, tr.Start(context.Background(), echoHandler(t, nil)))
	assert.NotEqual(t, "127.0.0.1:0", tr.Address())
	assert.Error(t, tr.Start(context.Background(), echoHandler(t, nil)))

	assert.NoError(t, tr.Stop())
	assert.NoError(t, tr.Stop())
	assert.Equal(t, "127.0.0.1:0", tr.Address())
}

func TestUDPTransport_InvalidAddress(t *testing.T) {
	tr := NewUDPTransport("not-an-address", Options{}, log.NewNoopLogger())
	assert.Error(t, tr.Start(context.Background(), echoHandler(t, nil)))
}

func TestUDPTransport_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := NewUDPTransport("127.0.0.1:0", Options{}, log.NewNoopLogger())
	require.NoError(t, tr.Start(ctx, echoHandler(t, nil)))

	cancel()
	assert.Eventually(t, func() bool {
		return tr.Address() == "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)
}
