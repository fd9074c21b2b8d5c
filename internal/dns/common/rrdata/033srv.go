package rrdata

import (
	"encoding/binary"
	"fmt"
)

// encodeSRVData encodes an SRV record body into its binary representation.
func encodeSRVData(body string) ([]byte, error) {
	// body = "priority\nweight\nport\ntarget"
	parts, err := tokens(body, 4, "priority", "weight", "port", "target")
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, 0, 6+len(parts[3])+2)
	for i, field := range []string{"priority", "weight", "port"} {
		v, err := parseUint(field, parts[i], 16)
		if err != nil {
			return nil, err
		}
		encoded = binary.BigEndian.AppendUint16(encoded, uint16(v))
	}

	target, err := encodeDomainName("target", parts[3])
	if err != nil {
		return nil, err
	}
	return append(encoded, target...), nil
}

func decodeSRVData(b []byte) (string, error) {
	if len(b) < 7 {
		return "", fmt.Errorf("invalid SRV data length: %d", len(b))
	}
	target, err := decodeSingleName(b[6:])
	if err != nil {
		return "", fmt.Errorf("invalid SRV target: %w", err)
	}
	return fmt.Sprintf("%d\n%d\n%d\n%s",
		binary.BigEndian.Uint16(b[0:2]),
		binary.BigEndian.Uint16(b[2:4]),
		binary.BigEndian.Uint16(b[4:6]),
		target), nil
}
