package rrdata

import (
	"encoding/binary"
	"fmt"
)

// encodeMXData encodes an MX record body into its binary representation.
func encodeMXData(body string) ([]byte, error) {
	// body = "10\nmail.example.com"
	parts, err := tokens(body, 2, "preference", "exchange")
	if err != nil {
		return nil, err
	}
	// pref is a uint16 representing the preference of the mail server
	pref, err := parseUint("preference", parts[0], 16)
	if err != nil {
		return nil, err
	}
	exchange, err := encodeDomainName("exchange", parts[1])
	if err != nil {
		return nil, err
	}
	encoded := binary.BigEndian.AppendUint16(make([]byte, 0, 2+len(exchange)), uint16(pref))
	return append(encoded, exchange...), nil
}

// decodeMXData decodes MX (Mail Exchange) record data from the given byte slice.
func decodeMXData(b []byte) (string, error) {
	if len(b) < 3 {
		return "", fmt.Errorf("invalid MX data length: %d", len(b))
	}
	pref := binary.BigEndian.Uint16(b[:2])
	exchange, err := decodeSingleName(b[2:])
	if err != nil {
		return "", fmt.Errorf("invalid MX exchange domain: %w", err)
	}
	return fmt.Sprintf("%d\n%s", pref, exchange), nil
}
