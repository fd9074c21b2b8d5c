package transport

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/miekg/dns"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/services/resolver"
)

// echoHandler answers every query with one A record and reports the maxSize it was given.
func echoHandler(t *testing.T, sizes chan<- int) resolver.Handler {
	t.Helper()
	return resolver.HandlerFunc(func(ctx context.Context, logger log.Logger, raw []byte, maxSize int) ([]byte, error) {
		if sizes != nil {
			sizes <- maxSize
		}
		q := new(dns.Msg)
		if err := q.Unpack(raw); err != nil {
			return nil, err
		}
		if len(q.Question) > 0 && q.Question[0].Name == "drop.example.com." {
			return nil, errors.New("dropped")
		}
		m := new(dns.Msg)
		m.SetReply(q)
		m.Authoritative = true
		if len(q.Question) > 0 {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.IPv4(192, 0, 2, 1),
			})
		}
		return m.Pack()
	})
}

func newQuery(name string) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeA)
	return m
}
