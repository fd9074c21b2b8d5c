package transport

import (
	"fmt"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/services/resolver"
)

// NewTransport creates a new transport instance based on the specified type.
// Zero Options fields take their defaults.
func NewTransport(transportType TransportType, addr string, opts Options, logger log.Logger) (resolver.ServerTransport, error) {
	opts = opts.withDefaults()
	switch transportType {
	case TransportUDP:
		return NewUDPTransport(addr, opts, logger), nil

	case TransportTCP:
		return NewTCPTransport(addr, opts, logger), nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}

// GetSupportedTransports returns a list of currently supported transport types.
func GetSupportedTransports() []TransportType {
	return []TransportType{
		TransportUDP,
		TransportTCP,
	}
}

// IsTransportSupported checks if a given transport type is currently supported.
func IsTransportSupported(transportType TransportType) bool {
	for _, t := range GetSupportedTransports() {
		if t == transportType {
			return true
		}
	}
	return false
}
