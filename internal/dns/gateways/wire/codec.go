// Package wire provides encoding and decoding of DNS messages in the wire format
// specified in RFC 1035, including the EDNS(0) OPT pseudo-record of RFC 6891.
// Names are written uncompressed and compressed names are rejected on input.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// MaxMessageSize is the largest message any transport can carry.
const MaxMessageSize = 65535

// Decode parses a complete DNS message.
// Input shorter than a header fails with domain.ErrMalformedMessage. Once the header has been
// read, any later failure is returned as a *HeaderError wrapping domain.ErrMalformedMessage.
func Decode(data []byte) (domain.Message, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return domain.Message{}, err
	}
	msg := domain.Message{ID: h.id, Flags: h.flags}
	fail := func(section string, i int, err error) (domain.Message, error) {
		return msg, &HeaderError{
			ID:    h.id,
			Flags: h.flags,
			Err:   fmt.Errorf("%w: %s %d: %v", domain.ErrMalformedMessage, section, i, err),
		}
	}

	offset := HeaderSize
	if h.qdCount > 0 {
		msg.Questions = make([]domain.Question, 0, h.qdCount)
	}
	for i := 0; i < int(h.qdCount); i++ {
		q, next, err := decodeQuestion(data, offset)
		if err != nil {
			return fail("question", i, err)
		}
		msg.Questions = append(msg.Questions, q)
		offset = next
	}

	sections := []struct {
		name  string
		count uint16
		dst   *[]domain.ResourceRecord
	}{
		{"answer", h.anCount, &msg.Answers},
		{"authority", h.nsCount, &msg.Authority},
		{"additional", h.arCount, &msg.Additional},
	}
	for _, s := range sections {
		for i := 0; i < int(s.count); i++ {
			rr, next, err := decodeRecord(data, offset)
			if err != nil {
				return fail(s.name+" record", i, err)
			}
			*s.dst = append(*s.dst, rr)
			offset = next
		}
	}
	return msg, nil
}

func decodeQuestion(data []byte, offset int) (domain.Question, int, error) {
	name, offset, err := DecodeName(data, offset)
	if err != nil {
		return domain.Question{}, 0, err
	}
	if offset+4 > len(data) {
		return domain.Question{}, 0, fmt.Errorf("truncated question after name")
	}
	q := domain.Question{
		Name:  name,
		Type:  domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2])),
		Class: domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4])),
	}
	return q, offset + 4, nil
}

func decodeRecord(data []byte, offset int) (domain.ResourceRecord, int, error) {
	name, offset, err := DecodeName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}
	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("truncated record after name")
	}
	rr := domain.ResourceRecord{
		Name:  name,
		Type:  domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2])),
		Class: domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4])),
		TTL:   binary.BigEndian.Uint32(data[offset+4 : offset+8]),
	}
	rdLen := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	offset += 10
	if offset+rdLen > len(data) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("rdata length %d runs past end of buffer", rdLen)
	}
	if rdLen > 0 {
		rr.Data = make([]byte, rdLen)
		copy(rr.Data, data[offset:offset+rdLen])
	}
	return rr, offset + rdLen, nil
}

// Encode serializes a DNS message, writing section counts from the slice lengths.
func Encode(msg domain.Message) ([]byte, error) {
	counts := []int{len(msg.Questions), len(msg.Answers), len(msg.Authority), len(msg.Additional)}
	for _, c := range counts {
		if c > 0xFFFF {
			return nil, fmt.Errorf("%w: section count %d exceeds 65535", domain.ErrMalformedMessage, c)
		}
	}

	var buf bytes.Buffer
	buf.Grow(domain.MinUDPPayloadSize)
	_ = binary.Write(&buf, binary.BigEndian, msg.ID)
	_ = binary.Write(&buf, binary.BigEndian, packFlags(msg.Flags))
	for _, c := range counts {
		//gosec:disable G115 -- bounds checked above
		_ = binary.Write(&buf, binary.BigEndian, uint16(c))
	}

	for _, q := range msg.Questions {
		if err := q.Name.Validate(); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.Name, err)
		}
		writeName(&buf, q.Name)
		_ = binary.Write(&buf, binary.BigEndian, uint16(q.Type))
		_ = binary.Write(&buf, binary.BigEndian, uint16(q.Class))
	}

	for _, section := range [][]domain.ResourceRecord{msg.Answers, msg.Authority, msg.Additional} {
		for _, rr := range section {
			if err := encodeRecord(&buf, rr); err != nil {
				return nil, err
			}
		}
	}
	if buf.Len() > MaxMessageSize {
		return nil, fmt.Errorf("%w: encoded message is %d bytes", domain.ErrMalformedMessage, buf.Len())
	}
	return buf.Bytes(), nil
}

// EncodeRecord serializes a single resource record as it appears in a message section.
func EncodeRecord(rr domain.ResourceRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeRecord(&buf, rr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRecord(buf *bytes.Buffer, rr domain.ResourceRecord) error {
	if err := rr.Name.Validate(); err != nil {
		return fmt.Errorf("record %s: %w", rr.Name, err)
	}
	dataLen := len(rr.Data)
	if dataLen > 0xFFFF {
		return fmt.Errorf("resource record data too large: %d bytes (max 65535)", dataLen)
	}
	writeName(buf, rr.Name)
	_ = binary.Write(buf, binary.BigEndian, uint16(rr.Type))
	_ = binary.Write(buf, binary.BigEndian, uint16(rr.Class))
	_ = binary.Write(buf, binary.BigEndian, rr.TTL)
	//gosec:disable G115 -- bounds checked above
	_ = binary.Write(buf, binary.BigEndian, uint16(dataLen))
	buf.Write(rr.Data)
	return nil
}
