package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/dirdns/internal/dns/domain"
)

// HeaderSize is the fixed length of a DNS message header.
const HeaderSize = 12

const (
	flagQR = 1 << 15
	flagAA = 1 << 10
	flagTC = 1 << 9
	flagRD = 1 << 8
	flagRA = 1 << 7
	flagAD = 1 << 5
	flagCD = 1 << 4
)

// header is the fixed part of a DNS message.
type header struct {
	id      uint16
	flags   domain.Flags
	qdCount uint16
	anCount uint16
	nsCount uint16
	arCount uint16
}

// HeaderError reports a message whose header parsed but whose body did not.
// It carries the ID and flags so a FORMERR reply can still be addressed to the sender.
type HeaderError struct {
	ID    uint16
	Flags domain.Flags
	Err   error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("message %d: %v", e.ID, e.Err)
}

func (e *HeaderError) Unwrap() error {
	return e.Err
}

func packFlags(f domain.Flags) uint16 {
	var v uint16
	if f.Response {
		v |= flagQR
	}
	v |= uint16(f.Opcode&0x0F) << 11
	if f.Authoritative {
		v |= flagAA
	}
	if f.Truncated {
		v |= flagTC
	}
	if f.RecursionDesired {
		v |= flagRD
	}
	if f.RecursionAvailable {
		v |= flagRA
	}
	if f.AuthenticData {
		v |= flagAD
	}
	if f.CheckingDisabled {
		v |= flagCD
	}
	v |= uint16(f.RCode & 0x0F)
	return v
}

func unpackFlags(v uint16) domain.Flags {
	return domain.Flags{
		Response:           v&flagQR != 0,
		Opcode:             domain.Opcode((v >> 11) & 0x0F),
		Authoritative:      v&flagAA != 0,
		Truncated:          v&flagTC != 0,
		RecursionDesired:   v&flagRD != 0,
		RecursionAvailable: v&flagRA != 0,
		AuthenticData:      v&flagAD != 0,
		CheckingDisabled:   v&flagCD != 0,
		//gosec:disable G115 -- masked to 4 bits
		RCode: domain.RCode(uint8(v & 0x0F)),
	}
}

func decodeHeader(data []byte) (header, error) {
	if len(data) < HeaderSize {
		return header{}, fmt.Errorf("%w: %d bytes is shorter than the header", domain.ErrMalformedMessage, len(data))
	}
	return header{
		id:      binary.BigEndian.Uint16(data[0:2]),
		flags:   unpackFlags(binary.BigEndian.Uint16(data[2:4])),
		qdCount: binary.BigEndian.Uint16(data[4:6]),
		anCount: binary.BigEndian.Uint16(data[6:8]),
		nsCount: binary.BigEndian.Uint16(data[8:10]),
		arCount: binary.BigEndian.Uint16(data[10:12]),
	}, nil
}

// PeekHeader decodes only the header of a message: its ID and flags.
func PeekHeader(data []byte) (uint16, domain.Flags, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return 0, domain.Flags{}, err
	}
	return h.id, h.flags, nil
}
