package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Address is the IP the DNS listeners bind to.
	Address string `koanf:"address" validate:"required,ip"`

	// Port is the network port the DNS server will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// ZoneDir is the root of the <tld>/<domain>/<stem>.<TYPE> record tree.
	ZoneDir string `koanf:"zone_dir" validate:"required"`

	// Transports lists the listeners to start.
	Transports []string `koanf:"transports" validate:"required,min=1,dive,oneof=udp tcp"`

	// MaxUDPSize caps datagram replies, even when a client advertises more via EDNS.
	MaxUDPSize int `koanf:"max_udp_size" validate:"gte=512,lte=65535"`

	// MaxCNAMEDepth bounds the CNAME hops followed for one question.
	MaxCNAMEDepth int `koanf:"max_cname_depth" validate:"gte=1,lte=64"`

	// IndexSize is the number of parsed record files kept in memory; 0 disables the index.
	IndexSize int `koanf:"index_size" validate:"gte=0"`

	// TCPIdleTimeout closes TCP connections that have been quiet this long.
	TCPIdleTimeout time.Duration `koanf:"tcp_idle_timeout" validate:"gt=0"`

	// MetricsAddr is the host:port serving /metrics. Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,listen_addr"`
}

// ListenAddr joins Address and Port for the DNS listeners.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for the DNS service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:            "prod",
	LogLevel:       "info",
	Address:        "0.0.0.0",
	Port:           53,
	ZoneDir:        "/etc/dirdns/records",
	Transports:     []string{"udp", "tcp"},
	MaxUDPSize:     4096,
	MaxCNAMEDepth:  8,
	IndexSize:      1024,
	TCPIdleTimeout: 10 * time.Second,
	MetricsAddr:    "",
}

// validListenAddr validates a "host:port" listen address. The host may be empty, an IP,
// or a hostname; the port must be between 1 and 65535.
func validListenAddr(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	if host != "" && net.ParseIP(host) == nil && !validHostname(host) {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0
}

func validHostname(host string) bool {
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

// envLoader loads environment variables with the prefix "DNS_".
// Keys are lowercased with the prefix removed; values holding spaces or commas become lists.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "listen_addr" validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("listen_addr", validListenAddr)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
