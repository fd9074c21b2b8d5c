package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/domain"
)

func TestChase_MultiHop(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"a.CNAME": "300\nb.example.com\n",
		"b.CNAME": "300\nc.example.com\n",
		"c.A":     "120\n198.51.100.7\n",
	}, 0)
	resp := resolve(t, r, query(t, "a.example.com.", dns.TypeA), 512)

	require.Len(t, resp.Answer, 1)
	assert.Equal(t, "a.example.com.", resp.Answer[0].Header().Name)
	assert.Equal(t, uint32(120), resp.Answer[0].Header().Ttl)
	assert.Equal(t, "198.51.100.7", resp.Answer[0].(*dns.A).A.String())
}

func TestChase_ToApex(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"www.CNAME": "300\nexample.com\n",
		"@.A":       "300\n192.0.2.1\n",
	}, 0)
	resp := resolve(t, r, query(t, "www.example.com.", dns.TypeA), 512)

	require.Len(t, resp.Answer, 1)
	assert.Equal(t, "192.0.2.1", resp.Answer[0].(*dns.A).A.String())
}

func TestChase_LoopSkipsQuestion(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := log.FromZap(zap.New(core))
	r := newTestResolver(t, map[string]string{
		"a.CNAME": "300\nb.example.com\n",
		"b.CNAME": "300\na.example.com\n",
		"ok.A":    "300\n192.0.2.9\n",
	}, 0)

	m := new(dns.Msg)
	m.Question = []dns.Question{
		{Name: "a.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
		{Name: "ok.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
	}
	out, err := r.Resolve(context.Background(), logger, pack(t, m), 512)
	require.NoError(t, err)
	resp := new(dns.Msg)
	require.NoError(t, resp.Unpack(out))

	assert.Equal(t, dns.RcodeSuccess, resp.Rcode)
	require.Len(t, resp.Answer, 1)
	assert.Equal(t, "ok.example.com.", resp.Answer[0].Header().Name)
	assert.NotEmpty(t, logs.FilterMessage("Alias loop detected").All())
}

func TestChase_SelfReference(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"self.CNAME": "300\nself.example.com\n",
	}, 0)
	resp := resolve(t, r, query(t, "self.example.com.", dns.TypeA), 512)
	assert.Equal(t, dns.RcodeSuccess, resp.Rcode)
	assert.Empty(t, resp.Answer)
}

func TestChase_DepthLimit(t *testing.T) {
	files := map[string]string{
		"h1.CNAME": "300\nh2.example.com\n",
		"h2.CNAME": "300\nh3.example.com\n",
		"h3.CNAME": "300\nh4.example.com\n",
		"h4.A":     "300\n192.0.2.4\n",
	}

	resp := resolve(t, newTestResolver(t, files, 3), query(t, "h1.example.com.", dns.TypeA), 512)
	require.Len(t, resp.Answer, 1)

	core, logs := observer.New(zapcore.WarnLevel)
	logger := log.FromZap(zap.New(core))
	out, err := newTestResolver(t, files, 2).Resolve(context.Background(), logger, query(t, "h1.example.com.", dns.TypeA), 512)
	require.NoError(t, err)
	resp = new(dns.Msg)
	require.NoError(t, resp.Unpack(out))
	assert.Empty(t, resp.Answer)
	assert.NotEmpty(t, logs.FilterMessage("Alias depth exceeded").All())
}

func TestChase_OnlyExactOwner(t *testing.T) {
	// wwwx.CNAME shares the prefix but does not own www.
	r := newTestResolver(t, map[string]string{
		"wwwx.CNAME": "300\nother.example.com\n",
		"other.A":    "300\n192.0.2.50\n",
		"www.A":      "300\n192.0.2.80\n",
	}, 0)
	resp := resolve(t, r, query(t, "www.example.com.", dns.TypeA), 512)

	require.Len(t, resp.Answer, 1)
	assert.Equal(t, "192.0.2.80", resp.Answer[0].(*dns.A).A.String())
}

func TestChase_BadTargetSkipped(t *testing.T) {
	r := newTestResolver(t, map[string]string{
		"bad.CNAME":  "300\nbad..example.com\n",
		"tld.CNAME":  "300\ncom\n",
		"nottl.A":    "soon\n192.0.2.1\n",
		"nottl.AAAA": "300\n2001:db8::1\n",
	}, 0)

	resp := resolve(t, r, query(t, "bad.example.com.", dns.TypeA), 512)
	assert.Empty(t, resp.Answer)
	resp = resolve(t, r, query(t, "tld.example.com.", dns.TypeA), 512)
	assert.Empty(t, resp.Answer)

	resp = resolve(t, r, query(t, "nottl.example.com.", dns.TypeANY), 512)
	require.Len(t, resp.Answer, 1)
	assert.Equal(t, dns.TypeAAAA, resp.Answer[0].Header().Rrtype)
}

type mockZones struct {
	mock.Mock
}

func (m *mockZones) List(name domain.Name) (domain.ZoneListing, bool, error) {
	args := m.Called(name)
	return args.Get(0).(domain.ZoneListing), args.Bool(1), args.Error(2)
}

func (m *mockZones) Read(listing domain.ZoneListing, entry domain.ZoneEntry) (domain.ZoneFile, error) {
	args := m.Called(listing, entry)
	return args.Get(0).(domain.ZoneFile), args.Error(1)
}

func TestResolve_StoreErrors(t *testing.T) {
	zones := new(mockZones)
	listing := domain.ZoneListing{
		Dir:       "/zones/com/example",
		Domain:    domain.NewName("example", "com"),
		LocalPath: "www",
		Entries: []domain.ZoneEntry{
			domain.NewZoneEntry("www.A"),
			domain.NewZoneEntry("www.TXT"),
		},
	}
	zones.On("List", domain.NewName("www", "example", "com")).Return(listing, true, nil)
	zones.On("List", domain.NewName("broken", "example", "com")).Return(domain.ZoneListing{}, false, errors.New("permission denied"))
	zones.On("Read", listing, domain.NewZoneEntry("www.A")).Return(domain.ZoneFile{}, errors.New("read failed"))
	zones.On("Read", listing, domain.NewZoneEntry("www.TXT")).Return(domain.ZoneFile{
		Entry: domain.NewZoneEntry("www.TXT"),
		TTL:   30,
		Body:  "hello\n",
	}, nil)

	r := NewResolver(ResolverOptions{Zones: zones})

	resp := resolve(t, r, query(t, "www.example.com.", dns.TypeA), 512)
	assert.Equal(t, dns.RcodeSuccess, resp.Rcode)
	assert.Empty(t, resp.Answer)

	resp = resolve(t, r, query(t, "www.example.com.", dns.TypeTXT), 512)
	require.Len(t, resp.Answer, 1)
	assert.Equal(t, []string{"hello"}, resp.Answer[0].(*dns.TXT).Txt)

	resp = resolve(t, r, query(t, "broken.example.com.", dns.TypeA), 512)
	assert.Equal(t, dns.RcodeSuccess, resp.Rcode)
	assert.Empty(t, resp.Answer)

	zones.AssertExpectations(t)
}

func TestCandidates(t *testing.T) {
	entries := []domain.ZoneEntry{
		domain.NewZoneEntry("@.A"),
		domain.NewZoneEntry("@.CNAME"),
		domain.NewZoneEntry("www.MX"),
		domain.NewZoneEntry("www.OPT"),
		domain.NewZoneEntry("README"),
		domain.NewZoneEntry("www.BOGUS"),
	}

	names := func(es []domain.ZoneEntry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Name)
		}
		return out
	}
	assert.Equal(t, []string{"@.A", "@.CNAME"}, names(candidates(entries, domain.RRTypeA)))
	assert.Equal(t, []string{"@.CNAME", "www.MX"}, names(candidates(entries, domain.RRTypeMX)))
	assert.Equal(t, []string{"@.A", "@.CNAME", "www.MX"}, names(candidates(entries, domain.RRTypeANY)))
}

func TestMatchesPath(t *testing.T) {
	tests := []struct {
		file  string
		local string
		want  bool
	}{
		{"@.A", "", true},
		{"www.A", "", false},
		{"@.A", "www", false},
		{"www.A", "www", true},
		{"WWW.A", "www", true},
		{"www2.A", "www", true},
		{"api.www.A", "www", false},
		{"api.www.A", "api.www", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesPath(domain.NewZoneEntry(tt.file), tt.local), "%s vs %q", tt.file, tt.local)
	}
}
