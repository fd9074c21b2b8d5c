package main

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a miekg/dns server that answers every A query with 192.0.2.1.
func startServer(t *testing.T, network string) string {
	t.Helper()
	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Authoritative = true
		if r.Question[0].Qtype == dns.TypeA {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.IPv4(192, 0, 2, 1),
			})
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{Net: network, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	switch network {
	case "udp":
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		require.NoError(t, err)
		srv.PacketConn = pc
	case "tcp":
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		srv.Listener = l
	}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}
	if srv.PacketConn != nil {
		return srv.PacketConn.LocalAddr().String()
	}
	return srv.Listener.Addr().String()
}

func runQuery(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuery_UDP(t *testing.T) {
	addr := startServer(t, "udp")
	out, err := runQuery(t, "--server", addr, "www.example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "rcode=NOERROR aa=true tc=false answers=1 via=udp")
	assert.Contains(t, out, "www.example.com.\t60\tIN\tA\t192.0.2.1")
}

func TestQuery_TCPWithType(t *testing.T) {
	addr := startServer(t, "tcp")
	out, err := runQuery(t, "--server", addr, "--tcp", "--edns", "1232", "example.com.", "txt")
	require.NoError(t, err)
	assert.Contains(t, out, "answers=0 via=tcp")
}

func TestQuery_Errors(t *testing.T) {
	_, err := runQuery(t)
	assert.Error(t, err)

	_, err = runQuery(t, "example.com", "NOTATYPE")
	assert.ErrorContains(t, err, "unknown query type")

	_, err = runQuery(t, "--server", "127.0.0.1:1", "--timeout", "100ms", "--tcp", "example.com")
	assert.Error(t, err)
}
