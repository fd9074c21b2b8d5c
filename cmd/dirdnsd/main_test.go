package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "test", "e2e")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	files := map[string]string{
		"@.A":       "300\n10.0.0.1\n",
		"api.A":     "60\n10.0.0.2\n",
		"www.CNAME": "300\napi.e2e.test\n",
		"@.TXT":     "300\nhello world\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := config.DEFAULT_APP_CONFIG
	cfg.Address = "127.0.0.1"
	cfg.Port = freePort(t)
	cfg.ZoneDir = root
	cfg.Transports = []string{"udp", "tcp"}
	return &cfg
}

func TestBuildApplication(t *testing.T) {
	cfg := testConfig(t)
	app, err := buildApplication(cfg, log.NewNoopLogger())
	require.NoError(t, err)
	assert.Len(t, app.transports, 2)
	assert.Nil(t, app.metrics)

	cfg.MetricsAddr = "127.0.0.1:0"
	app, err = buildApplication(cfg, log.NewNoopLogger())
	require.NoError(t, err)
	assert.NotNil(t, app.metrics)
}

func TestBuildApplication_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.ZoneDir = filepath.Join(t.TempDir(), "missing")
	_, err := buildApplication(cfg, log.NewNoopLogger())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Transports = []string{"doh"}
	_, err = buildApplication(cfg, log.NewNoopLogger())
	assert.Error(t, err)
}

func TestE2E_DNSResolution(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	cfg := testConfig(t)
	app, err := buildApplication(cfg, log.NewNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx)
	}()

	addr := net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port))
	exchange := func(network, name string, qtype uint16) *dns.Msg {
		t.Helper()
		m := new(dns.Msg)
		m.SetQuestion(name, qtype)
		c := &dns.Client{Net: network, Timeout: time.Second}
		var resp *dns.Msg
		require.Eventually(t, func() bool {
			r, _, err := c.Exchange(m, addr)
			if err != nil {
				return false
			}
			resp = r
			return true
		}, 3*time.Second, 20*time.Millisecond)
		return resp
	}

	for _, network := range []string{"udp", "tcp"} {
		resp := exchange(network, "e2e.test.", dns.TypeA)
		require.Len(t, resp.Answer, 1, network)
		assert.Equal(t, "10.0.0.1", resp.Answer[0].(*dns.A).A.String(), network)
		assert.True(t, resp.Authoritative, network)

		resp = exchange(network, "www.e2e.test.", dns.TypeA)
		require.Len(t, resp.Answer, 1, network)
		assert.Equal(t, "www.e2e.test.", resp.Answer[0].Header().Name, network)
		assert.Equal(t, "10.0.0.2", resp.Answer[0].(*dns.A).A.String(), network)

		resp = exchange(network, "e2e.test.", dns.TypeTXT)
		require.Len(t, resp.Answer, 1, network)
		assert.Equal(t, []string{"hello world"}, resp.Answer[0].(*dns.TXT).Txt, network)

		resp = exchange(network, "missing.e2e.test.", dns.TypeA)
		assert.Equal(t, dns.RcodeSuccess, resp.Rcode, network)
		assert.Empty(t, resp.Answer, network)
	}

	cancel()
	select {
	case err := <-appErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Application failed to shutdown")
	}
}
