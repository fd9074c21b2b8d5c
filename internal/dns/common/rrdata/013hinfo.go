package rrdata

import "fmt"

// encodeHINFOData encodes an HINFO record body ("<cpu>\n<os>") into two character-strings.
func encodeHINFOData(body string) ([]byte, error) {
	ls := lines(body)
	if len(ls) != 2 {
		return nil, fieldError("body", fmt.Errorf("expected 2 fields (cpu, os), got %d", len(ls)))
	}
	cpu, err := encodeCharacterString("cpu", ls[0])
	if err != nil {
		return nil, err
	}
	os, err := encodeCharacterString("os", ls[1])
	if err != nil {
		return nil, err
	}
	return append(cpu, os...), nil
}

func decodeHINFOData(b []byte) (string, error) {
	cpu, offset, err := decodeCharacterString(b, 0)
	if err != nil {
		return "", fmt.Errorf("invalid HINFO cpu: %w", err)
	}
	os, offset, err := decodeCharacterString(b, offset)
	if err != nil {
		return "", fmt.Errorf("invalid HINFO os: %w", err)
	}
	if err := expectEnd(b, offset); err != nil {
		return "", err
	}
	return cpu + "\n" + os, nil
}
