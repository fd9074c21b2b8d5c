package wire

import (
	"bytes"
	"fmt"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// DecodeName reads an uncompressed domain name from data starting at offset and returns the
// name together with the offset of the first byte after it.
// Compression pointers are rejected: their length octet has the top bits set and so exceeds 63.
func DecodeName(data []byte, offset int) (domain.Name, int, error) {
	var labels []string
	total := 0
	for {
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("%w: name runs past end of buffer", domain.ErrMalformedName)
		}
		length := int(data[offset])
		offset++
		total++
		if length == 0 {
			break
		}
		if length > domain.MaxLabelLength {
			return nil, 0, fmt.Errorf("%w: label length %d at offset %d", domain.ErrMalformedName, length, offset-1)
		}
		total += length
		// one octet stays reserved for the root terminator
		if total+1 > domain.MaxNameLength {
			return nil, 0, fmt.Errorf("%w: name exceeds %d octets", domain.ErrMalformedName, domain.MaxNameLength)
		}
		if offset+length > len(data) {
			return nil, 0, fmt.Errorf("%w: label runs past end of buffer", domain.ErrMalformedName)
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}
	return domain.NewName(labels...), offset, nil
}

// EncodeName encodes a domain name into DNS wire format without compression.
func EncodeName(name domain.Name) ([]byte, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(name.WireLength())
	writeName(&buf, name)
	return buf.Bytes(), nil
}

// writeName appends an already validated name to buf.
func writeName(buf *bytes.Buffer, name domain.Name) {
	for _, label := range name {
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
}
