package rrdata

import (
	"fmt"
	"net/netip"
	"strings"
)

// encodeAAAAData encodes an AAAA record body into its binary representation.
func encodeAAAAData(body string) ([]byte, error) {
	// body = "2001:db8::1"
	addr, err := netip.ParseAddr(strings.TrimSpace(body))
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return nil, fieldError("address", fmt.Errorf("invalid IPv6 address %q", strings.TrimSpace(body)))
	}
	b := addr.As16()
	return b[:], nil
}

func decodeAAAAData(b []byte) (string, error) {
	if len(b) != 16 {
		return "", fmt.Errorf("invalid AAAA data length: %d", len(b))
	}
	return netip.AddrFrom16([16]byte(b)).String(), nil
}
