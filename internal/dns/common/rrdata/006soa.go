package rrdata

import (
	"encoding/binary"
	"fmt"
	"strings"
)

var soaFields = []string{"mname", "rname", "serial", "refresh", "retry", "expire", "minimum"}

// encodeSOAData encodes an SOA record body into its binary representation.
func encodeSOAData(body string) ([]byte, error) {
	// body = "mname\nrname\nserial\nrefresh\nretry\nexpire\nminimum"
	parts, err := tokens(body, len(soaFields), soaFields...)
	if err != nil {
		return nil, err
	}

	// mname is the primary name server for the zone
	mname, err := encodeDomainName("mname", parts[0])
	if err != nil {
		return nil, err
	}

	// rname is the mailbox of the zone administrator in domain form
	// e.g. hostmaster@example.com is written hostmaster.example.com
	rname, err := encodeDomainName("rname", parts[1])
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, 0, len(mname)+len(rname)+20)
	encoded = append(encoded, mname...)
	encoded = append(encoded, rname...)
	for i, field := range soaFields[2:] {
		v, err := parseUint(field, parts[i+2], 32)
		if err != nil {
			return nil, err
		}
		encoded = binary.BigEndian.AppendUint32(encoded, uint32(v))
	}
	return encoded, nil
}

// decodeSOAData decodes an SOA record from its binary representation.
func decodeSOAData(b []byte) (string, error) {
	mname, offset, err := decodeDomainName(b, 0)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, offset, err := decodeDomainName(b, offset)
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %w", err)
	}
	if len(b)-offset != 20 {
		return "", fmt.Errorf("SOA record needs 20 bytes of integer fields, has %d", len(b)-offset)
	}
	out := []string{mname, rname}
	for i := 0; i < 5; i++ {
		out = append(out, fmt.Sprint(binary.BigEndian.Uint32(b[offset+i*4:])))
	}
	return strings.Join(out, "\n"), nil
}
