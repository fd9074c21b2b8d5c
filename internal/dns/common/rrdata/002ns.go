package rrdata

import "fmt"

// encodeNSData encodes an NS record body into its binary representation.
func encodeNSData(body string) ([]byte, error) {
	// body = "ns1.example.com"
	return encodeSingleName("nameserver", body)
}

// decodeNSData decodes a byte slice representing an NS (Name Server) record's RDATA
func decodeNSData(b []byte) (string, error) {
	return decodeSingleName(b)
}

// encodeSingleName encodes a body that consists of exactly one domain name.
func encodeSingleName(field, body string) ([]byte, error) {
	ls := lines(body)
	if len(ls) != 1 {
		return nil, fieldError(field, fmt.Errorf("expected a single domain name, got %d lines", len(ls)))
	}
	return encodeDomainName(field, ls[0])
}

func decodeSingleName(b []byte) (string, error) {
	name, next, err := decodeDomainName(b, 0)
	if err != nil {
		return "", err
	}
	if err := expectEnd(b, next); err != nil {
		return "", err
	}
	return name, nil
}
