package rrdata

import "strings"

// encodeTXTData encodes a TXT record body into its binary representation.
// Each line of the body becomes one character-string; lines longer than 255 bytes are
// split into consecutive 255-byte strings (RFC 1035 §3.3.14). An empty body yields a single
// empty string.
func encodeTXTData(body string) ([]byte, error) {
	ls := lines(body)
	if len(ls) == 0 {
		return []byte{0}, nil
	}
	var encoded []byte
	for _, line := range ls {
		for len(line) > maxCharacterString {
			encoded = append(encoded, maxCharacterString)
			encoded = append(encoded, line[:maxCharacterString]...)
			line = line[maxCharacterString:]
		}
		encoded = append(encoded, byte(len(line)))
		encoded = append(encoded, line...)
	}
	return encoded, nil
}

// decodeTXTData renders every character-string on its own line.
func decodeTXTData(b []byte) (string, error) {
	var segments []string
	for offset := 0; offset < len(b); {
		s, next, err := decodeCharacterString(b, offset)
		if err != nil {
			return "", err
		}
		segments = append(segments, s)
		offset = next
	}
	return strings.Join(segments, "\n"), nil
}
