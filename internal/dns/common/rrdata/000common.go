package rrdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haukened/dirdns/internal/dns/common/utils"
	"github.com/haukened/dirdns/internal/dns/domain"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
)

// maxCharacterString is the longest <character-string> (RFC 1035 §3.3).
const maxCharacterString = 255

// fieldError wraps err as a malformed body failure naming the offending field.
func fieldError(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrMalformedRecordBody, field, err)
}

// lines splits a record body into trimmed lines, dropping trailing blank lines.
// Blank lines in the middle of a body are kept.
func lines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimRight(body, "\n\t ")
	if strings.TrimSpace(body) == "" {
		return nil
	}
	out := strings.Split(body, "\n")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

// tokens returns exactly n fields of a body written one per line. A body written on a single
// line with n whitespace-separated fields is accepted too.
func tokens(body string, n int, names ...string) ([]string, error) {
	ls := lines(body)
	if len(ls) == 1 && n > 1 {
		if f := strings.Fields(ls[0]); len(f) == n {
			return f, nil
		}
	}
	if len(ls) != n {
		return nil, fieldError("body", fmt.Errorf("expected %d fields (%s), got %d", n, strings.Join(names, ", "), len(ls)))
	}
	return ls, nil
}

func parseUint(field, s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
	if err != nil {
		return 0, fieldError(field, err)
	}
	return v, nil
}

// parseName reads a domain name written in a record body. "." denotes the root.
func parseName(field, s string) (domain.Name, error) {
	canonical, err := utils.PresentationDNSName(s)
	if err != nil {
		return nil, fieldError(field, err)
	}
	if canonical == "" {
		return nil, fieldError(field, fmt.Errorf("empty domain name"))
	}
	n, err := domain.ParseName(canonical)
	if err != nil {
		return nil, fieldError(field, err)
	}
	return n, nil
}

// encodeDomainName encodes a domain name into wire format (length-prefixed labels ending in 0).
// used in multiple record types
func encodeDomainName(field, s string) ([]byte, error) {
	n, err := parseName(field, s)
	if err != nil {
		return nil, err
	}
	b, err := wire.EncodeName(n)
	if err != nil {
		return nil, fieldError(field, err)
	}
	return b, nil
}

// decodeDomainName decodes a name at offset and returns its presentation form and the next offset.
func decodeDomainName(b []byte, offset int) (string, int, error) {
	n, next, err := wire.DecodeName(b, offset)
	if err != nil {
		return "", 0, err
	}
	return n.String(), next, nil
}

// encodeCharacterString writes a single length-prefixed string.
func encodeCharacterString(field, s string) ([]byte, error) {
	if len(s) > maxCharacterString {
		return nil, fieldError(field, fmt.Errorf("%d bytes exceeds %d", len(s), maxCharacterString))
	}
	out := make([]byte, 0, len(s)+1)
	out = append(out, byte(len(s)))
	return append(out, s...), nil
}

// decodeCharacterString reads a single length-prefixed string at offset.
func decodeCharacterString(b []byte, offset int) (string, int, error) {
	if offset >= len(b) {
		return "", 0, fmt.Errorf("missing character-string")
	}
	l := int(b[offset])
	offset++
	if offset+l > len(b) {
		return "", 0, fmt.Errorf("character-string length %d runs past rdata", l)
	}
	return string(b[offset : offset+l]), offset + l, nil
}

// expectEnd rejects rdata with bytes left over after the last field.
func expectEnd(b []byte, offset int) error {
	if offset != len(b) {
		return fmt.Errorf("%d trailing bytes", len(b)-offset)
	}
	return nil
}
