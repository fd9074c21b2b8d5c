package rrdata

import (
	"fmt"
	"net/netip"
	"strings"
)

// encodeAData encodes an A record body into its binary representation.
func encodeAData(body string) ([]byte, error) {
	// body = "192.0.2.1"
	addr, err := netip.ParseAddr(strings.TrimSpace(body))
	if err != nil || !addr.Is4() {
		return nil, fieldError("address", fmt.Errorf("invalid IPv4 address %q", strings.TrimSpace(body)))
	}
	b := addr.As4()
	return b[:], nil
}

func decodeAData(b []byte) (string, error) {
	if len(b) != 4 {
		return "", fmt.Errorf("invalid A data length: %d", len(b))
	}
	return netip.AddrFrom4([4]byte(b)).String(), nil
}
